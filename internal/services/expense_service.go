package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	apperrors "envelopes/internal/errors"
	"envelopes/internal/expand"
	"envelopes/internal/models"
	"envelopes/internal/pagination"
	"envelopes/internal/repository"
	"envelopes/internal/store"
)

type expenseService struct {
	expenses *repository.Repo[models.Expense]
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenses *repository.Repo[models.Expense]) ExpenseServicer {
	return &expenseService{expenses: expenses}
}

// CreateExpense records a new expense. Expenses always start unassigned.
func (s *expenseService) CreateExpense(ctx context.Context, ownerID int64, name string, cost float64, description string) (int64, error) {
	exp := &models.Expense{
		Name:        name,
		Cost:        cost,
		Description: description,
		Owner:       ownerID,
	}
	return s.expenses.Create(ctx, exp)
}

func (s *expenseService) GetExpense(ctx context.Context, base string, id int64) (*models.ExpenseView, error) {
	exp, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return expand.Expense(base, exp), nil
}

// ListExpenses returns one page of expenses plus the total count. Page and
// count are independent reads.
func (s *expenseService) ListExpenses(ctx context.Context, base, cursor string) (*pagination.Collection[*models.ExpenseView], error) {
	var (
		page  []*models.Expense
		info  store.RunInfo
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, info, err = s.expenses.GetAllPaged(gctx, cursor)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.expenses.CountAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]*models.ExpenseView, 0, len(page))
	for _, exp := range page {
		views = append(views, expand.Expense(base, exp))
	}
	col := pagination.NewCollection(views, total, info, base+"/expenses")
	return &col, nil
}

// UpdateExpense patches the expense's own fields. The envelope reference is
// untouched regardless of the patch.
func (s *expenseService) UpdateExpense(ctx context.Context, callerID, id int64, patch ExpensePatch) error {
	exp, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp.Owner != callerID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to make changes to this expense.")
	}

	if patch.Name != "" {
		exp.Name = patch.Name
	}
	if patch.Cost != nil {
		exp.Cost = *patch.Cost
	}
	if patch.Description != "" {
		exp.Description = patch.Description
	}

	return s.expenses.Update(ctx, id, exp)
}

// DeleteExpense removes the expense. No envelope record needs fixing up
// because assignments live only on the expense side.
func (s *expenseService) DeleteExpense(ctx context.Context, callerID, id int64) error {
	exp, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp.Owner != callerID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to make changes to this expense.")
	}
	return s.expenses.Delete(ctx, id)
}
