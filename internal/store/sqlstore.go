package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// scanBatch is the row batch size used while walking a kind in key order.
const scanBatch = 200

// document is the single-table row backing every kind: the store-assigned
// integer key, the kind discriminator, and the entity body as JSON.
type document struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Kind string `gorm:"size:64;index;not null"`
	Doc  string `gorm:"type:text;not null"`
}

func (document) TableName() string { return "documents" }

// SQLStore implements Client on a relational database through GORM. Filters
// and projections are evaluated over an id-ordered scan of the kind, which
// keeps the query surface identical between sqlite and postgres.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates a store client over an open GORM connection.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// AutoMigrate creates the documents table. The sqlite path uses this; the
// postgres path applies migrations/ instead.
func (s *SQLStore) AutoMigrate() error {
	return s.db.AutoMigrate(&document{})
}

// Save stores a new entity and returns its assigned key.
func (s *SQLStore) Save(ctx context.Context, kind string, props map[string]any) (Key, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return Key{}, fmt.Errorf("store: encode %s entity: %w", kind, err)
	}
	row := document{Kind: kind, Doc: string(raw)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Key{}, fmt.Errorf("store: save %s entity: %w", kind, err)
	}
	return Key{Kind: kind, ID: row.ID}, nil
}

// Update rewrites the entity at key. Returns ErrNoSuchEntity if absent.
func (s *SQLStore) Update(ctx context.Context, key Key, props map[string]any) error {
	raw, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("store: encode %s entity: %w", key.Kind, err)
	}
	res := s.db.WithContext(ctx).
		Model(&document{}).
		Where("id = ? AND kind = ?", key.ID, key.Kind).
		Update("doc", string(raw))
	if res.Error != nil {
		return fmt.Errorf("store: update %s %d: %w", key.Kind, key.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoSuchEntity
	}
	return nil
}

// Delete removes the given keys, grouping by kind.
func (s *SQLStore) Delete(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	byKind := make(map[string][]int64)
	for _, k := range keys {
		byKind[k.Kind] = append(byKind[k.Kind], k.ID)
	}
	for kind, ids := range byKind {
		err := s.db.WithContext(ctx).
			Where("kind = ? AND id IN ?", kind, ids).
			Delete(&document{}).Error
		if err != nil {
			return fmt.Errorf("store: delete %s entities: %w", kind, err)
		}
	}
	return nil
}

// Run executes a query over the kind in key order. The returned EndCursor
// marks the last entity of this page; passing it back through Query.Start
// continues the same ordered scan.
func (s *SQLStore) Run(ctx context.Context, q *Query) ([]Entity, RunInfo, error) {
	if q.Kind == "" {
		return nil, RunInfo{}, fmt.Errorf("store: query has no kind")
	}
	for _, f := range q.Filters {
		if f.Op != "=" {
			return nil, RunInfo{}, fmt.Errorf("store: unsupported filter operator %q", f.Op)
		}
	}

	limit := q.Limit
	if limit <= 0 || limit > LookupLimit {
		limit = LookupLimit
	}

	scanFrom := int64(0)
	if q.StartCursor != "" {
		id, err := decodeCursor(q.Kind, q.StartCursor)
		if err != nil {
			return nil, RunInfo{}, err
		}
		scanFrom = id
	}

	var out []Entity
	lastID := scanFrom
	more := false

scan:
	for {
		var rows []document
		err := s.db.WithContext(ctx).
			Where("kind = ? AND id > ?", q.Kind, scanFrom).
			Order("id").
			Limit(scanBatch).
			Find(&rows).Error
		if err != nil {
			return nil, RunInfo{}, fmt.Errorf("store: scan %s: %w", q.Kind, err)
		}
		for _, row := range rows {
			var props map[string]any
			if err := json.Unmarshal([]byte(row.Doc), &props); err != nil {
				return nil, RunInfo{}, fmt.Errorf("store: decode %s %d: %w", q.Kind, row.ID, err)
			}
			if !matches(q.Filters, row.ID, props) {
				continue
			}
			if len(out) == limit {
				// One more match exists beyond the page.
				more = true
				break scan
			}
			out = append(out, Entity{
				Key:   Key{Kind: q.Kind, ID: row.ID},
				Props: project(q.Projection, props),
			})
			lastID = row.ID
		}
		if len(rows) < scanBatch {
			break
		}
		scanFrom = rows[len(rows)-1].ID
	}

	info := RunInfo{MoreResults: NoMoreResults, EndCursor: encodeCursor(q.Kind, lastID)}
	if more {
		info.MoreResults = MoreResultsAfterLimit
	}
	return out, info, nil
}

func matches(filters []Filter, id int64, props map[string]any) bool {
	for _, f := range filters {
		if f.Field == KeyField {
			key, ok := f.Value.(Key)
			if !ok || key.ID != id {
				return false
			}
			continue
		}
		if !valueEquals(props[f.Field], f.Value) {
			return false
		}
	}
	return true
}

// valueEquals compares a JSON-decoded property against a caller-supplied
// value. Numbers compare as float64 since encoding/json decodes all numbers
// that way.
func valueEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func project(fields []string, props map[string]any) map[string]any {
	if len(fields) == 0 {
		return props
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if f == KeyField {
			// Keys-only: the key rides on the Entity, nothing to copy.
			continue
		}
		if v, ok := props[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Cursors are opaque base64 tokens naming the kind and the last row returned.
// The base64 alphabet includes '+', '/', and '=', so transported cursors
// exercise the same re-encoding path the pagination layer guards.
func encodeCursor(kind string, lastID int64) string {
	return base64.StdEncoding.EncodeToString(fmt.Appendf(nil, "%s/%d", kind, lastID))
}

func decodeCursor(kind, cursor string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrBadCursor
	}
	rest, ok := strings.CutPrefix(string(raw), kind+"/")
	if !ok {
		return 0, ErrBadCursor
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, ErrBadCursor
	}
	return id, nil
}
