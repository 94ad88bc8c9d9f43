// Package integration exercises the full HTTP stack over an in-memory store:
// router, middleware, handlers, services, and the document store together.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"envelopes/internal/auth"
	"envelopes/internal/expand"
	"envelopes/internal/handlers"
	"envelopes/internal/logger"
	"envelopes/internal/repository"
	"envelopes/internal/services"
	"envelopes/internal/store"
	"envelopes/internal/testutil"
	"envelopes/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// testApp holds the full application stack for integration tests.
type testApp struct {
	Client *store.SQLStore
	Router *gin.Engine
	Tokens *auth.Manager
}

// setupApp wires the whole stack over an isolated in-memory database.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	client := testutil.SetupTestStore(t)

	users := repository.NewUsers(client)
	envelopes := repository.NewEnvelopes(client)
	expenses := repository.NewExpenses(client)
	expander := expand.New(expenses)

	userService := services.NewUserService(users, envelopes, expenses, expander)
	envelopeService := services.NewEnvelopeService(envelopes, expenses, expander)
	expenseService := services.NewExpenseService(expenses)

	tokens := auth.NewManager("test-secret", "envelopes-api", "envelopes-client", time.Hour)

	router := handlers.NewRouter(
		tokens,
		handlers.NewAuthHandler(userService, tokens),
		handlers.NewUserHandler(userService),
		handlers.NewEnvelopeHandler(envelopeService),
		handlers.NewExpenseHandler(expenseService),
	)

	return &testApp{Client: client, Router: router, Tokens: tokens}
}

// request performs an HTTP request against the in-process router. A non-nil
// body is sent as JSON; a non-empty token rides in the x-access-token header.
func (app *testApp) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.HeaderName, token)
	}

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

// decodeJSON unmarshals a response body.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

// assertStatus fails with the response body when the status is unexpected.
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

var userCounter int

// registerUser creates an account through the API and returns its id and a
// valid token for it.
func (app *testApp) registerUser(t *testing.T) (int64, string) {
	t.Helper()

	userCounter++
	email := fmt.Sprintf("user%d@flow.test", userCounter)

	w := app.request(t, http.MethodPost, "/users", "", map[string]any{
		"email":    email,
		"first":    "Flow",
		"last":     "Tester",
		"password": "password123",
	})
	assertStatus(t, w, http.StatusCreated)

	var created struct {
		ID int64 `json:"id"`
	}
	decodeJSON(t, w, &created)

	w = app.request(t, http.MethodPost, "/auth", "", map[string]any{
		"email":    email,
		"password": "password123",
	})
	assertStatus(t, w, http.StatusOK)

	var login struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	decodeJSON(t, w, &login)
	if login.Token == "" {
		t.Fatal("expected a token from login")
	}
	return created.ID, login.Token
}

// link is the {id, self} wire shape of an expanded reference.
type link struct {
	ID   int64  `json:"id"`
	Self string `json:"self"`
}

// envelopeBody is the wire shape of an envelope response.
type envelopeBody struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	TotalAmount    float64 `json:"totalAmount"`
	Owner          link    `json:"owner"`
	AmountReserved float64 `json:"amountReserved"`
	AmountFree     float64 `json:"amountFree"`
	ExpenseCount   int     `json:"expenseCount"`
	Expenses       []link  `json:"expenses"`
	Self           string  `json:"self"`
}

// expenseBody is the wire shape of an expense response.
type expenseBody struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
	Owner       link    `json:"owner"`
	Envelope    *link   `json:"envelope"`
	Self        string  `json:"self"`
}
