// Package models defines the stored record types per store kind and the view
// types returned on the wire. Stored records hold exactly what the store
// persists; ids, self links, and aggregates are view concerns added by the
// expand package and never written back.
package models

// Store kind discriminators.
const (
	KindUser     = "User"
	KindEnvelope = "Envelope"
	KindExpense  = "Expense"
)

// Stored field names used in query filters and projections.
const (
	FieldEmail    = "email"
	FieldFirst    = "first"
	FieldLast     = "last"
	FieldOwner    = "owner"
	FieldEnvelope = "envelope"
)

// Link is a hypermedia reference to a resource: its id and canonical URL.
type Link struct {
	ID   int64  `json:"id"`
	Self string `json:"self"`
}

// Property helpers for decoding store documents. encoding/json decodes all
// numbers as float64; these normalize back to the model field types.

func propString(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func propFloat(props map[string]any, key string) float64 {
	f, _ := props[key].(float64)
	return f
}

func propID(props map[string]any, key string) int64 {
	switch v := props[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func propNullableID(props map[string]any, key string) *int64 {
	if props[key] == nil {
		return nil
	}
	id := propID(props, key)
	return &id
}
