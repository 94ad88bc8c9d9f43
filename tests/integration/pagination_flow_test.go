package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestEnvelopePagination(t *testing.T) {
	app := setupApp(t)
	_, token := app.registerUser(t)

	const total = 12
	created := make(map[int64]bool, total)
	for i := 0; i < total; i++ {
		id := app.createEnvelope(t, token, fmt.Sprintf("Envelope %d", i), 10)
		created[id] = true
	}

	// Walk the collection through the next links exactly as a client would,
	// letting the cursor round-trip through URL query parsing.
	target := "/envelopes"
	pages := 0
	seen := 0
	for {
		w := app.request(t, http.MethodGet, target, token, nil)
		assertStatus(t, w, http.StatusOK)

		var col struct {
			Items []envelopeBody `json:"items"`
			Count int            `json:"count"`
			Next  string         `json:"next"`
		}
		decodeJSON(t, w, &col)
		pages++

		if col.Count != total {
			t.Errorf("expected count %d on every page, got %d", total, col.Count)
		}
		if len(col.Items) > 5 {
			t.Fatalf("page exceeds the 5-item ceiling: %d", len(col.Items))
		}
		for _, env := range col.Items {
			if !created[env.ID] {
				t.Errorf("duplicate or unknown envelope %d in page %d", env.ID, pages)
			}
			delete(created, env.ID)
			seen++
		}

		if col.Next == "" {
			break
		}
		target = col.Next
	}

	if pages != 3 {
		t.Errorf("expected 3 pages of 5+5+2, got %d", pages)
	}
	if seen != total {
		t.Errorf("expected %d envelopes across pages, got %d", total, seen)
	}
	if len(created) != 0 {
		t.Errorf("pagination omitted envelopes: %v", created)
	}
}

func TestExpensePagination(t *testing.T) {
	app := setupApp(t)
	_, token := app.registerUser(t)

	const total = 6
	for i := 0; i < total; i++ {
		app.createExpense(t, token, fmt.Sprintf("Expense %d", i), 1)
	}

	w := app.request(t, http.MethodGet, "/expenses", token, nil)
	assertStatus(t, w, http.StatusOK)

	var col struct {
		Items []expenseBody `json:"items"`
		Count int           `json:"count"`
		Next  string        `json:"next"`
	}
	decodeJSON(t, w, &col)

	if len(col.Items) != 5 || col.Count != total {
		t.Errorf("expected page of 5 with count %d, got %d items (count %d)", total, len(col.Items), col.Count)
	}
	if col.Next == "" {
		t.Fatal("expected next link")
	}

	w = app.request(t, http.MethodGet, col.Next, token, nil)
	assertStatus(t, w, http.StatusOK)
	// Reset before reuse: Unmarshal leaves fields absent from the JSON
	// (like an omitted "next") holding their previous values.
	col.Items, col.Count, col.Next = nil, 0, ""
	decodeJSON(t, w, &col)
	if len(col.Items) != 1 || col.Next != "" {
		t.Errorf("expected final page of 1 with no next, got %d items (next %q)", len(col.Items), col.Next)
	}
}

func TestBadCursorRejected(t *testing.T) {
	app := setupApp(t)
	_, token := app.registerUser(t)
	app.createEnvelope(t, token, "One", 10)

	w := app.request(t, http.MethodGet, "/envelopes?cursor=definitely-not-a-cursor", token, nil)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestUserPagination(t *testing.T) {
	app := setupApp(t)
	_, token := app.registerUser(t)

	// The register above plus six more crosses the page ceiling.
	for i := 0; i < 6; i++ {
		app.registerUser(t)
	}

	w := app.request(t, http.MethodGet, "/users", token, nil)
	assertStatus(t, w, http.StatusOK)

	var col struct {
		Items []struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Self  string `json:"self"`
		} `json:"items"`
		Count int    `json:"count"`
		Next  string `json:"next"`
	}
	decodeJSON(t, w, &col)

	if len(col.Items) != 5 || col.Count != 7 {
		t.Errorf("expected 5 of 7 users, got %d (count %d)", len(col.Items), col.Count)
	}
	if col.Next == "" {
		t.Error("expected next link")
	}
	for _, u := range col.Items {
		if u.Self == "" || u.Email == "" {
			t.Errorf("expected expanded user view, got %+v", u)
		}
	}
}
