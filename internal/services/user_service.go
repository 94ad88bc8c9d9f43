package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	apperrors "envelopes/internal/errors"
	"envelopes/internal/expand"
	"envelopes/internal/models"
	"envelopes/internal/pagination"
	"envelopes/internal/repository"
	"envelopes/internal/store"
)

type userService struct {
	users     *repository.Repo[models.User]
	envelopes *repository.Repo[models.Envelope]
	expenses  *repository.Repo[models.Expense]
	expander  *expand.Expander
}

// NewUserService creates a new user service.
func NewUserService(
	users *repository.Repo[models.User],
	envelopes *repository.Repo[models.Envelope],
	expenses *repository.Repo[models.Expense],
	expander *expand.Expander,
) UserServicer {
	return &userService{
		users:     users,
		envelopes: envelopes,
		expenses:  expenses,
		expander:  expander,
	}
}

// CreateUser registers a new account. The duplicate-email check is a
// read-then-write over a store with no uniqueness constraint, so two
// concurrent signups with the same email can both succeed.
func (s *userService) CreateUser(ctx context.Context, email, password, first, last string) (int64, error) {
	existing, err := s.users.GetAllMatching(ctx, models.FieldEmail, email, store.KeyField)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:        email,
		First:        first,
		Last:         last,
		PasswordHash: string(hash),
	}
	return s.users.Create(ctx, user)
}

// AttemptLogin checks the credentials and returns the matching user. Unknown
// email and wrong password produce the same error.
func (s *userService) AttemptLogin(ctx context.Context, email, password string) (*models.User, error) {
	matches, err := s.users.GetAllMatching(ctx, models.FieldEmail, email)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.ErrInvalidCredentials
	}

	user := matches[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, base string, id int64) (*models.UserView, error) {
	user, err := s.users.GetByID(ctx, id, models.FieldEmail, models.FieldFirst, models.FieldLast)
	if err != nil {
		return nil, err
	}
	return expand.User(base, user), nil
}

// ListUsers returns one page of users plus the total count. The page and the
// count are independent reads, so the count may disagree with a page fetched
// during concurrent writes.
func (s *userService) ListUsers(ctx context.Context, base, cursor string) (*pagination.Collection[*models.UserView], error) {
	var (
		page  []*models.User
		info  store.RunInfo
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, info, err = s.users.GetAllPaged(gctx, cursor, models.FieldEmail, models.FieldFirst, models.FieldLast)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.users.CountAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]*models.UserView, 0, len(page))
	for _, user := range page {
		views = append(views, expand.User(base, user))
	}
	col := pagination.NewCollection(views, total, info, base+"/users")
	return &col, nil
}

func (s *userService) UpdateUser(ctx context.Context, callerID, id int64, patch UserPatch) error {
	if callerID != id {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to make changes to this user.")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.First != "" {
		user.First = patch.First
	}
	if patch.Last != "" {
		user.Last = patch.Last
	}
	if patch.Email != "" && patch.Email != user.Email {
		taken, err := s.users.GetAllMatching(ctx, models.FieldEmail, patch.Email, store.KeyField)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return apperrors.ErrDuplicateEmail
		}
		user.Email = patch.Email
	}
	if patch.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.PasswordHash = string(hash)
	}

	return s.users.Update(ctx, id, user)
}

// DeleteUser removes the user and everything they own. The owned envelopes
// and expenses are deleted before the user record, so a failure partway
// leaves the account intact but some property gone.
func (s *userService) DeleteUser(ctx context.Context, callerID, id int64) error {
	if callerID != id {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You are not authorized to make changes to this user.")
	}

	var (
		ownedEnvelopes []*models.Envelope
		ownedExpenses  []*models.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ownedEnvelopes, err = s.envelopes.GetAllMatching(gctx, models.FieldOwner, id, store.KeyField)
		return err
	})
	g.Go(func() error {
		var err error
		ownedExpenses, err = s.expenses.GetAllMatching(gctx, models.FieldOwner, id, store.KeyField)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		ids := make([]int64, 0, len(ownedEnvelopes))
		for _, env := range ownedEnvelopes {
			ids = append(ids, env.ID)
		}
		return s.envelopes.DeleteBatch(gctx, ids)
	})
	g.Go(func() error {
		ids := make([]int64, 0, len(ownedExpenses))
		for _, exp := range ownedExpenses {
			ids = append(ids, exp.ID)
		}
		return s.expenses.DeleteBatch(gctx, ids)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return s.users.Delete(ctx, id)
}

// ListUserEnvelopes returns every envelope the user owns, unpaginated.
func (s *userService) ListUserEnvelopes(ctx context.Context, base string, ownerID int64) (*pagination.Collection[*models.EnvelopeView], error) {
	owned, err := s.envelopes.GetAllMatching(ctx, models.FieldOwner, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]*models.EnvelopeView, 0, len(owned))
	for _, env := range owned {
		view, err := s.expander.Envelope(ctx, base, env)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	col := pagination.NewCollection(views, len(views), store.RunInfo{MoreResults: store.NoMoreResults}, "")
	return &col, nil
}

// ListUserExpenses returns every expense the user owns, unpaginated.
func (s *userService) ListUserExpenses(ctx context.Context, base string, ownerID int64) (*pagination.Collection[*models.ExpenseView], error) {
	owned, err := s.expenses.GetAllMatching(ctx, models.FieldOwner, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ExpenseView, 0, len(owned))
	for _, exp := range owned {
		views = append(views, expand.Expense(base, exp))
	}
	col := pagination.NewCollection(views, len(views), store.RunInfo{MoreResults: store.NoMoreResults}, "")
	return &col, nil
}
