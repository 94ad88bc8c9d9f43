// Package store defines the opaque document-store client the rest of the
// application is written against: kind-scoped entities with store-assigned
// integer keys, filtered and projected queries, and cursor-based paging.
//
// The store offers no cross-entity transactions. Every multi-step mutation in
// the layers above is a read-check-write sequence, and index reads are only
// eventually consistent with writes.
package store

import (
	"context"
	"errors"
)

// LookupLimit is the maximum number of results a single Run may return,
// regardless of the requested limit.
const LookupLimit = 1000

// KeyField is the pseudo-field addressing an entity's key in filters and
// projections. Selecting only KeyField yields a keys-only query.
const KeyField = "__key__"

var (
	// ErrNoSuchEntity is returned by Update when the key does not exist.
	ErrNoSuchEntity = errors.New("store: no such entity")
	// ErrBadCursor is returned by Run when a start cursor cannot be decoded
	// or belongs to a different kind.
	ErrBadCursor = errors.New("store: invalid cursor")
)

// Key identifies an entity of a kind.
type Key struct {
	Kind string
	ID   int64
}

// Entity is a stored document together with its key. Props holds the stored
// fields as decoded JSON values; derived view fields never appear here.
type Entity struct {
	Key   Key
	Props map[string]any
}

// MoreResults reports whether a scan has further results past the returned
// page.
type MoreResults string

const (
	NoMoreResults         MoreResults = "NO_MORE_RESULTS"
	MoreResultsAfterLimit MoreResults = "MORE_RESULTS_AFTER_LIMIT"
)

// RunInfo carries scan continuation state. EndCursor is opaque; callers must
// not interpret it, only hand it back via Query.Start.
type RunInfo struct {
	MoreResults MoreResults
	EndCursor   string
}

// Filter is a single field predicate. Only the "=" operator is supported.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Query describes a kind-scoped scan.
type Query struct {
	Kind        string
	Filters     []Filter
	Projection  []string
	Limit       int
	StartCursor string
}

// NewQuery creates a query over the given kind.
func NewQuery(kind string) *Query {
	return &Query{Kind: kind}
}

// Filter adds a field predicate.
func (q *Query) Filter(field, op string, value any) *Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// Select restricts the returned properties to the given fields. Selecting
// only KeyField returns entities with empty Props.
func (q *Query) Select(fields ...string) *Query {
	q.Projection = append(q.Projection, fields...)
	return q
}

// WithLimit bounds the number of returned entities. Zero or negative means
// LookupLimit.
func (q *Query) WithLimit(n int) *Query {
	q.Limit = n
	return q
}

// Start resumes the scan from a previously issued end cursor.
func (q *Query) Start(cursor string) *Query {
	q.StartCursor = cursor
	return q
}

// Client is the document-store interface consumed by the repository layer.
type Client interface {
	// Save stores a new entity of the given kind and returns its
	// store-assigned key.
	Save(ctx context.Context, kind string, props map[string]any) (Key, error)
	// Update rewrites an existing entity. Returns ErrNoSuchEntity if the key
	// is absent.
	Update(ctx context.Context, key Key, props map[string]any) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...Key) error
	// Run executes a query and reports continuation state alongside the page.
	Run(ctx context.Context, q *Query) ([]Entity, RunInfo, error)
}
