package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestUserFlow(t *testing.T) {
	app := setupApp(t)
	userID, token := app.registerUser(t)

	t.Run("get_self", func(t *testing.T) {
		w := app.request(t, http.MethodGet, fmt.Sprintf("/users/%d", userID), token, nil)
		assertStatus(t, w, http.StatusOK)

		var body struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			First string `json:"first"`
			Last  string `json:"last"`
			Self  string `json:"self"`
		}
		decodeJSON(t, w, &body)
		if body.ID != userID || body.First != "Flow" {
			t.Errorf("unexpected user %+v", body)
		}
		if !strings.HasSuffix(body.Self, fmt.Sprintf("/users/%d", userID)) {
			t.Errorf("unexpected self link %q", body.Self)
		}
		if strings.Contains(w.Body.String(), "password") {
			t.Error("response must not expose the password hash")
		}
	})

	t.Run("patch_self", func(t *testing.T) {
		w := app.request(t, http.MethodPatch, fmt.Sprintf("/users/%d", userID), token, map[string]any{
			"first": "Renamed",
		})
		assertStatus(t, w, http.StatusSeeOther)
		if loc := w.Header().Get("Location"); !strings.HasSuffix(loc, fmt.Sprintf("/users/%d", userID)) {
			t.Errorf("unexpected Location %q", loc)
		}

		w = app.request(t, http.MethodGet, fmt.Sprintf("/users/%d", userID), token, nil)
		var body struct {
			First string `json:"first"`
			Last  string `json:"last"`
		}
		decodeJSON(t, w, &body)
		if body.First != "Renamed" || body.Last != "Tester" {
			t.Errorf("unexpected user after patch %+v", body)
		}
	})

	t.Run("patch_other_forbidden", func(t *testing.T) {
		otherID, _ := app.registerUser(t)
		w := app.request(t, http.MethodPatch, fmt.Sprintf("/users/%d", otherID), token, map[string]any{
			"first": "Hacked",
		})
		assertStatus(t, w, http.StatusForbidden)
	})

	t.Run("missing_user", func(t *testing.T) {
		w := app.request(t, http.MethodGet, "/users/4242", token, nil)
		assertStatus(t, w, http.StatusNotFound)
		if !strings.Contains(w.Body.String(), "User ID 4242 not found.") {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})
}

func TestUserPropertyListings(t *testing.T) {
	app := setupApp(t)
	userID, token := app.registerUser(t)
	otherID, otherToken := app.registerUser(t)

	app.createEnvelope(t, token, "A", 10)
	app.createEnvelope(t, token, "B", 20)
	app.createExpense(t, token, "X", 1)
	app.createEnvelope(t, otherToken, "Theirs", 30)

	t.Run("envelopes", func(t *testing.T) {
		w := app.request(t, http.MethodGet, fmt.Sprintf("/users/%d/envelopes", userID), token, nil)
		assertStatus(t, w, http.StatusOK)

		var col struct {
			Items []envelopeBody `json:"items"`
			Count int            `json:"count"`
			Next  string         `json:"next"`
		}
		decodeJSON(t, w, &col)
		if col.Count != 2 || len(col.Items) != 2 {
			t.Errorf("expected 2 envelopes, got %+v", col)
		}
		if col.Next != "" {
			t.Errorf("expected no pagination, got next %q", col.Next)
		}
	})

	t.Run("expenses", func(t *testing.T) {
		w := app.request(t, http.MethodGet, fmt.Sprintf("/users/%d/expenses", userID), token, nil)
		assertStatus(t, w, http.StatusOK)

		var col struct {
			Items []expenseBody `json:"items"`
			Count int           `json:"count"`
		}
		decodeJSON(t, w, &col)
		if col.Count != 1 || len(col.Items) != 1 {
			t.Errorf("expected 1 expense, got %+v", col)
		}
	})

	t.Run("other_users_listing_visible", func(t *testing.T) {
		// Ownership listings are readable by any authenticated user.
		w := app.request(t, http.MethodGet, fmt.Sprintf("/users/%d/envelopes", otherID), token, nil)
		assertStatus(t, w, http.StatusOK)

		var col struct {
			Count int `json:"count"`
		}
		decodeJSON(t, w, &col)
		if col.Count != 1 {
			t.Errorf("expected 1 envelope for other user, got %d", col.Count)
		}
	})
}

func TestDeleteUserCascade(t *testing.T) {
	app := setupApp(t)
	userID, token := app.registerUser(t)
	survivorID, survivorToken := app.registerUser(t)

	envID := app.createEnvelope(t, token, "Doomed", 100)
	expID := app.createExpense(t, token, "Doomed too", 5)
	app.request(t, http.MethodPut, fmt.Sprintf("/envelopes/%d/expenses/%d", envID, expID), token, nil)

	survivorEnvID := app.createEnvelope(t, survivorToken, "Safe", 50)

	t.Run("delete_other_forbidden", func(t *testing.T) {
		w := app.request(t, http.MethodDelete, fmt.Sprintf("/users/%d", survivorID), token, nil)
		assertStatus(t, w, http.StatusForbidden)
	})

	t.Run("delete_self", func(t *testing.T) {
		w := app.request(t, http.MethodDelete, fmt.Sprintf("/users/%d", userID), token, nil)
		assertStatus(t, w, http.StatusNoContent)
	})

	t.Run("property_gone", func(t *testing.T) {
		w := app.request(t, http.MethodGet, fmt.Sprintf("/users/%d", userID), survivorToken, nil)
		assertStatus(t, w, http.StatusNotFound)

		w = app.request(t, http.MethodGet, fmt.Sprintf("/envelopes/%d", envID), survivorToken, nil)
		assertStatus(t, w, http.StatusNotFound)

		w = app.request(t, http.MethodGet, fmt.Sprintf("/expenses/%d", expID), survivorToken, nil)
		assertStatus(t, w, http.StatusNotFound)
	})

	t.Run("survivor_untouched", func(t *testing.T) {
		w := app.request(t, http.MethodGet, fmt.Sprintf("/envelopes/%d", survivorEnvID), survivorToken, nil)
		assertStatus(t, w, http.StatusOK)
	})
}
