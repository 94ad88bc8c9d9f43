package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"envelopes/internal/models"
	"envelopes/internal/repository"
	"envelopes/internal/store"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, client store.Client) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, client, email)
}

// CreateTestUserWithEmail creates a user with the given email. The password
// is always "password123".
func CreateTestUserWithEmail(t *testing.T, client store.Client, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		First:        "Test",
		Last:         "User",
		PasswordHash: string(hash),
	}
	id, err := repository.NewUsers(client).Create(context.Background(), user)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	user.ID = id
	return user
}

// CreateTestEnvelope creates an envelope owned by the given user.
func CreateTestEnvelope(t *testing.T, client store.Client, ownerID int64, totalAmount float64) *models.Envelope {
	t.Helper()

	env := &models.Envelope{
		Name:        fmt.Sprintf("Test Envelope %d", nextID()),
		TotalAmount: totalAmount,
		Owner:       ownerID,
	}
	id, err := repository.NewEnvelopes(client).Create(context.Background(), env)
	if err != nil {
		t.Fatalf("failed to create test envelope: %v", err)
	}
	env.ID = id
	return env
}

// CreateTestExpense creates an unassigned expense owned by the given user.
func CreateTestExpense(t *testing.T, client store.Client, ownerID int64, cost float64) *models.Expense {
	t.Helper()

	exp := &models.Expense{
		Name:  fmt.Sprintf("Test Expense %d", nextID()),
		Cost:  cost,
		Owner: ownerID,
	}
	id, err := repository.NewExpenses(client).Create(context.Background(), exp)
	if err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	exp.ID = id
	return exp
}
