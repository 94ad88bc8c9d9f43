// Package repository provides typed CRUD per store kind on top of the store
// client. It owns id assignment (via store keys), the single not-found
// existence check, and the keys-only count reconciliation scan.
package repository

import (
	"context"
	"errors"

	apperrors "envelopes/internal/errors"
	"envelopes/internal/models"
	"envelopes/internal/pagination"
	"envelopes/internal/store"
)

// Repo is a typed repository for one kind. The codec functions map between
// the record type and the stored property map; derived view fields (id, self,
// aggregates) are structurally absent from the codec output.
type Repo[T any] struct {
	store  store.Client
	kind   string
	encode func(*T) map[string]any
	decode func(store.Entity) *T
}

// New creates a repository for a kind with its codec.
func New[T any](client store.Client, kind string, encode func(*T) map[string]any, decode func(store.Entity) *T) *Repo[T] {
	return &Repo[T]{store: client, kind: kind, encode: encode, decode: decode}
}

// NewUsers creates the User repository.
func NewUsers(client store.Client) *Repo[models.User] {
	return New(client, models.KindUser, (*models.User).Doc, models.UserFromEntity)
}

// NewEnvelopes creates the Envelope repository.
func NewEnvelopes(client store.Client) *Repo[models.Envelope] {
	return New(client, models.KindEnvelope, (*models.Envelope).Doc, models.EnvelopeFromEntity)
}

// NewExpenses creates the Expense repository.
func NewExpenses(client store.Client) *Repo[models.Expense] {
	return New(client, models.KindExpense, (*models.Expense).Doc, models.ExpenseFromEntity)
}

// Kind returns the repository's store kind.
func (r *Repo[T]) Kind() string { return r.kind }

// Create stores a new record and returns its assigned id.
func (r *Repo[T]) Create(ctx context.Context, m *T) (int64, error) {
	key, err := r.store.Save(ctx, r.kind, r.encode(m))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return key.ID, nil
}

// GetByID fetches one record by id. This is the single existence check every
// caller runs before mutating; the not-found error names the kind and id.
func (r *Repo[T]) GetByID(ctx context.Context, id int64, projection ...string) (*T, error) {
	q := store.NewQuery(r.kind).Filter(store.KeyField, "=", store.Key{Kind: r.kind, ID: id})
	if len(projection) > 0 {
		q.Select(projection...)
	}
	ents, _, err := r.store.Run(ctx, q)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if len(ents) == 0 {
		return nil, apperrors.NotFound(r.kind, id)
	}
	return r.decode(ents[0]), nil
}

// GetAllPaged fetches one page of the kind, bounded by the fixed page
// ceiling, resuming from cursor when given.
func (r *Repo[T]) GetAllPaged(ctx context.Context, cursor string, projection ...string) ([]*T, store.RunInfo, error) {
	q := store.NewQuery(r.kind).WithLimit(pagination.PageLimit)
	if len(projection) > 0 {
		q.Select(projection...)
	}
	if cursor != "" {
		q.Start(cursor)
	}
	ents, info, err := r.store.Run(ctx, q)
	if err != nil {
		return nil, store.RunInfo{}, wrapStoreErr(err)
	}
	out := make([]*T, 0, len(ents))
	for _, e := range ents {
		out = append(out, r.decode(e))
	}
	return out, info, nil
}

// GetAllMatching fetches every record whose field equals value, unbounded
// within the store's scan ceiling.
func (r *Repo[T]) GetAllMatching(ctx context.Context, field string, value any, projection ...string) ([]*T, error) {
	q := store.NewQuery(r.kind).Filter(field, "=", value)
	if len(projection) > 0 {
		q.Select(projection...)
	}
	ents, _, err := r.store.Run(ctx, q)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	out := make([]*T, 0, len(ents))
	for _, e := range ents {
		out = append(out, r.decode(e))
	}
	return out, nil
}

// CountAll runs a keys-only scan, following continuation cursors until the
// store reports no more results, and sums the page sizes. The count is exact
// at scan time but only eventually consistent with concurrent writes.
func (r *Repo[T]) CountAll(ctx context.Context) (int, error) {
	count := 0
	cursor := ""
	for {
		q := store.NewQuery(r.kind).Select(store.KeyField).WithLimit(store.LookupLimit)
		if cursor != "" {
			q.Start(cursor)
		}
		ents, info, err := r.store.Run(ctx, q)
		if err != nil {
			return 0, wrapStoreErr(err)
		}
		count += len(ents)
		if info.MoreResults == store.NoMoreResults {
			break
		}
		cursor = info.EndCursor
	}
	return count, nil
}

// Update rewrites the full record at id.
func (r *Repo[T]) Update(ctx context.Context, id int64, m *T) error {
	props := r.encode(m)
	// id and self are view fields, never stored.
	delete(props, "id")
	delete(props, "self")
	err := r.store.Update(ctx, store.Key{Kind: r.kind, ID: id}, props)
	if errors.Is(err, store.ErrNoSuchEntity) {
		return apperrors.NotFound(r.kind, id)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Delete removes one record.
func (r *Repo[T]) Delete(ctx context.Context, id int64) error {
	if err := r.store.Delete(ctx, store.Key{Kind: r.kind, ID: id}); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteBatch removes a set of records in one store call.
func (r *Repo[T]) DeleteBatch(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]store.Key, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, store.Key{Kind: r.kind, ID: id})
	}
	if err := r.store.Delete(ctx, keys...); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func wrapStoreErr(err error) *apperrors.AppError {
	if errors.Is(err, store.ErrBadCursor) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid pagination cursor.")
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
