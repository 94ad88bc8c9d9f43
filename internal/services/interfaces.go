package services

import (
	"context"

	"envelopes/internal/models"
	"envelopes/internal/pagination"
)

// UserPatch holds the optional fields of a user update. Zero values mean
// "leave unchanged".
type UserPatch struct {
	Email    string
	First    string
	Last     string
	Password string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, first, last string) (int64, error)
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, base string, id int64) (*models.UserView, error)
	ListUsers(ctx context.Context, base, cursor string) (*pagination.Collection[*models.UserView], error)
	UpdateUser(ctx context.Context, callerID, id int64, patch UserPatch) error
	DeleteUser(ctx context.Context, callerID, id int64) error
	ListUserEnvelopes(ctx context.Context, base string, ownerID int64) (*pagination.Collection[*models.EnvelopeView], error)
	ListUserExpenses(ctx context.Context, base string, ownerID int64) (*pagination.Collection[*models.ExpenseView], error)
}

// EnvelopePatch holds the optional fields of an envelope update.
type EnvelopePatch struct {
	Name        string
	TotalAmount *float64
}

// EnvelopeServicer defines the contract for envelope-related business logic,
// including the expense assignment protocol.
type EnvelopeServicer interface {
	CreateEnvelope(ctx context.Context, ownerID int64, name string, totalAmount float64) (int64, error)
	GetEnvelope(ctx context.Context, base string, id int64) (*models.EnvelopeView, error)
	ListEnvelopes(ctx context.Context, base, cursor string) (*pagination.Collection[*models.EnvelopeView], error)
	UpdateEnvelope(ctx context.Context, callerID, id int64, patch EnvelopePatch) error
	DeleteEnvelope(ctx context.Context, callerID, id int64) error
	AssignExpense(ctx context.Context, callerID, envelopeID, expenseID int64) error
	UnassignExpense(ctx context.Context, callerID, envelopeID, expenseID int64) error
	ListEnvelopeExpenses(ctx context.Context, base string, envelopeID int64) (*pagination.Collection[*models.ExpenseView], error)
}

// ExpensePatch holds the optional fields of an expense update. The envelope
// reference is deliberately absent: it changes only through the assignment
// protocol.
type ExpensePatch struct {
	Name        string
	Cost        *float64
	Description string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, ownerID int64, name string, cost float64, description string) (int64, error)
	GetExpense(ctx context.Context, base string, id int64) (*models.ExpenseView, error)
	ListExpenses(ctx context.Context, base, cursor string) (*pagination.Collection[*models.ExpenseView], error)
	UpdateExpense(ctx context.Context, callerID, id int64, patch ExpensePatch) error
	DeleteExpense(ctx context.Context, callerID, id int64) error
}
