package models

import "envelopes/internal/store"

// Expense is the stored expense record. Envelope is nil until the expense is
// assigned through the relationship routes; direct creates and updates never
// touch it.
type Expense struct {
	ID          int64
	Name        string
	Cost        float64
	Description string
	Owner       int64
	Envelope    *int64
}

// Doc returns the stored property map. The envelope reference is stored
// explicitly as null when unassigned.
func (e *Expense) Doc() map[string]any {
	doc := map[string]any{
		"name":        e.Name,
		"cost":        e.Cost,
		"description": e.Description,
		"owner":       e.Owner,
		"envelope":    nil,
	}
	if e.Envelope != nil {
		doc["envelope"] = *e.Envelope
	}
	return doc
}

// ExpenseFromEntity decodes a stored expense.
func ExpenseFromEntity(ent store.Entity) *Expense {
	return &Expense{
		ID:          ent.Key.ID,
		Name:        propString(ent.Props, "name"),
		Cost:        propFloat(ent.Props, "cost"),
		Description: propString(ent.Props, "description"),
		Owner:       propID(ent.Props, "owner"),
		Envelope:    propNullableID(ent.Props, "envelope"),
	}
}

// ExpenseView is the wire representation of an expense. Envelope is null
// while the expense is unassigned.
type ExpenseView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description,omitempty"`
	Owner       Link    `json:"owner"`
	Envelope    *Link   `json:"envelope"`
	Self        string  `json:"self"`
}
