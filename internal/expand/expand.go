// Package expand converts stored scalar references into {id, self} links and
// computes envelope aggregates from the live set of referencing expenses.
package expand

import (
	"context"
	"fmt"

	"envelopes/internal/models"
	"envelopes/internal/repository"
)

// Expander enriches stored records into wire views. Base URLs are resolved
// per request and passed per call.
type Expander struct {
	expenses *repository.Repo[models.Expense]
}

// New creates an Expander over the expense repository.
func New(expenses *repository.Repo[models.Expense]) *Expander {
	return &Expander{expenses: expenses}
}

// UserLink returns the canonical link to a user.
func UserLink(base string, id int64) models.Link {
	return models.Link{ID: id, Self: fmt.Sprintf("%s/users/%d", base, id)}
}

// EnvelopeLink returns the canonical link to an envelope.
func EnvelopeLink(base string, id int64) models.Link {
	return models.Link{ID: id, Self: fmt.Sprintf("%s/envelopes/%d", base, id)}
}

// ExpenseLink returns the canonical link to an expense.
func ExpenseLink(base string, id int64) models.Link {
	return models.Link{ID: id, Self: fmt.Sprintf("%s/expenses/%d", base, id)}
}

// User builds the user view. Pure function of record and base URL.
func User(base string, u *models.User) *models.UserView {
	return &models.UserView{
		ID:    u.ID,
		Email: u.Email,
		First: u.First,
		Last:  u.Last,
		Self:  UserLink(base, u.ID).Self,
	}
}

// Expense builds the expense view, expanding the owner reference and, when
// the expense is assigned, the envelope reference. Pure and idempotent.
func Expense(base string, e *models.Expense) *models.ExpenseView {
	v := &models.ExpenseView{
		ID:          e.ID,
		Name:        e.Name,
		Cost:        e.Cost,
		Description: e.Description,
		Owner:       UserLink(base, e.Owner),
		Self:        ExpenseLink(base, e.ID).Self,
	}
	if e.Envelope != nil {
		l := EnvelopeLink(base, *e.Envelope)
		v.Envelope = &l
	}
	return v
}

// Envelope builds the envelope view. It queries the live set of expenses
// referencing the envelope and recomputes amountReserved, expenseCount, and
// amountFree from current store state on every call; nothing is cached.
func (x *Expander) Envelope(ctx context.Context, base string, env *models.Envelope) (*models.EnvelopeView, error) {
	refs, err := x.expenses.GetAllMatching(ctx, models.FieldEnvelope, env.ID)
	if err != nil {
		return nil, err
	}

	v := &models.EnvelopeView{
		ID:          env.ID,
		Name:        env.Name,
		TotalAmount: env.TotalAmount,
		Owner:       UserLink(base, env.Owner),
		Self:        EnvelopeLink(base, env.ID).Self,
	}
	var reserved float64
	for _, e := range refs {
		v.Expenses = append(v.Expenses, ExpenseLink(base, e.ID))
		reserved += e.Cost
	}
	// Zero matches leaves Expenses nil, which marshals as the null sentinel.
	v.AmountReserved = reserved
	v.ExpenseCount = len(refs)
	v.AmountFree = env.TotalAmount - reserved
	return v, nil
}
