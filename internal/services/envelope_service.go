package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	apperrors "envelopes/internal/errors"
	"envelopes/internal/expand"
	"envelopes/internal/models"
	"envelopes/internal/pagination"
	"envelopes/internal/repository"
	"envelopes/internal/store"
)

type envelopeService struct {
	envelopes *repository.Repo[models.Envelope]
	expenses  *repository.Repo[models.Expense]
	expander  *expand.Expander
}

// NewEnvelopeService creates a new envelope service.
func NewEnvelopeService(
	envelopes *repository.Repo[models.Envelope],
	expenses *repository.Repo[models.Expense],
	expander *expand.Expander,
) EnvelopeServicer {
	return &envelopeService{
		envelopes: envelopes,
		expenses:  expenses,
		expander:  expander,
	}
}

func (s *envelopeService) CreateEnvelope(ctx context.Context, ownerID int64, name string, totalAmount float64) (int64, error) {
	env := &models.Envelope{
		Name:        name,
		TotalAmount: totalAmount,
		Owner:       ownerID,
	}
	return s.envelopes.Create(ctx, env)
}

func (s *envelopeService) GetEnvelope(ctx context.Context, base string, id int64) (*models.EnvelopeView, error) {
	env, err := s.envelopes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expander.Envelope(ctx, base, env)
}

// ListEnvelopes returns one page of envelopes plus the total count. Page and
// count are independent reads.
func (s *envelopeService) ListEnvelopes(ctx context.Context, base, cursor string) (*pagination.Collection[*models.EnvelopeView], error) {
	var (
		page  []*models.Envelope
		info  store.RunInfo
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, info, err = s.envelopes.GetAllPaged(gctx, cursor)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.envelopes.CountAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]*models.EnvelopeView, 0, len(page))
	for _, env := range page {
		view, err := s.expander.Envelope(ctx, base, env)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	col := pagination.NewCollection(views, total, info, base+"/envelopes")
	return &col, nil
}

func (s *envelopeService) UpdateEnvelope(ctx context.Context, callerID, id int64, patch EnvelopePatch) error {
	env, err := s.envelopes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if env.Owner != callerID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to make changes to this envelope.")
	}

	if patch.Name != "" {
		env.Name = patch.Name
	}
	if patch.TotalAmount != nil {
		env.TotalAmount = *patch.TotalAmount
	}

	return s.envelopes.Update(ctx, id, env)
}

// DeleteEnvelope removes the envelope after clearing the envelope reference
// on every expense assigned to it. The clears run concurrently and are not
// rolled back if one fails, so a partial failure can leave some expenses
// detached while the envelope survives.
func (s *envelopeService) DeleteEnvelope(ctx context.Context, callerID, id int64) error {
	env, err := s.envelopes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if env.Owner != callerID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to make changes to this envelope.")
	}

	assigned, err := s.expenses.GetAllMatching(ctx, models.FieldEnvelope, id)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, exp := range assigned {
		exp := exp
		g.Go(func() error {
			exp.Envelope = nil
			return s.expenses.Update(gctx, exp.ID, exp)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return s.envelopes.Delete(ctx, id)
}

// AssignExpense places an expense into an envelope. The caller must own both
// resources. The write touches only the expense record and is not atomic
// with the envelope existence check.
func (s *envelopeService) AssignExpense(ctx context.Context, callerID, envelopeID, expenseID int64) error {
	env, exp, err := s.fetchPair(ctx, envelopeID, expenseID)
	if err != nil {
		return err
	}
	if env.Owner != callerID || exp.Owner != callerID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to modify one or both of these resources.")
	}

	exp.Envelope = &env.ID
	return s.expenses.Update(ctx, exp.ID, exp)
}

// UnassignExpense removes an expense from an envelope. The expense must
// currently reference exactly that envelope.
func (s *envelopeService) UnassignExpense(ctx context.Context, callerID, envelopeID, expenseID int64) error {
	env, exp, err := s.fetchPair(ctx, envelopeID, expenseID)
	if err != nil {
		return err
	}
	if env.Owner != callerID || exp.Owner != callerID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to modify one or both of these resources.")
	}
	if exp.Envelope == nil || *exp.Envelope != env.ID {
		return apperrors.WithMessage(apperrors.ErrNotInEnvelope,
			fmt.Sprintf("Expense ID %d is not in envelope ID %d.", exp.ID, env.ID))
	}

	exp.Envelope = nil
	return s.expenses.Update(ctx, exp.ID, exp)
}

// ListEnvelopeExpenses returns every expense assigned to the envelope,
// unpaginated.
func (s *envelopeService) ListEnvelopeExpenses(ctx context.Context, base string, envelopeID int64) (*pagination.Collection[*models.ExpenseView], error) {
	assigned, err := s.expenses.GetAllMatching(ctx, models.FieldEnvelope, envelopeID)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ExpenseView, 0, len(assigned))
	for _, exp := range assigned {
		views = append(views, expand.Expense(base, exp))
	}
	col := pagination.NewCollection(views, len(views), store.RunInfo{MoreResults: store.NoMoreResults}, "")
	return &col, nil
}

// fetchPair loads an envelope and an expense concurrently. When both are
// missing, whichever lookup fails first determines the reported error.
func (s *envelopeService) fetchPair(ctx context.Context, envelopeID, expenseID int64) (*models.Envelope, *models.Expense, error) {
	var (
		env *models.Envelope
		exp *models.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		env, err = s.envelopes.GetByID(gctx, envelopeID)
		return err
	})
	g.Go(func() error {
		var err error
		exp, err = s.expenses.GetByID(gctx, expenseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return env, exp, nil
}
