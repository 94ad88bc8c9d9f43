package models

import "envelopes/internal/store"

// Envelope is the stored envelope record. The owner link is set at creation
// and immutable afterwards.
type Envelope struct {
	ID          int64
	Name        string
	TotalAmount float64
	Owner       int64
}

// Doc returns the stored property map.
func (e *Envelope) Doc() map[string]any {
	return map[string]any{
		"name":        e.Name,
		"totalAmount": e.TotalAmount,
		"owner":       e.Owner,
	}
}

// EnvelopeFromEntity decodes a stored envelope.
func EnvelopeFromEntity(ent store.Entity) *Envelope {
	return &Envelope{
		ID:          ent.Key.ID,
		Name:        propString(ent.Props, "name"),
		TotalAmount: propFloat(ent.Props, "totalAmount"),
		Owner:       propID(ent.Props, "owner"),
	}
}

// EnvelopeView is the wire representation of an envelope, including the
// aggregates recomputed on every read. Envelopes are soft budgets:
// AmountFree may go negative.
type EnvelopeView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	TotalAmount    float64 `json:"totalAmount"`
	Owner          Link    `json:"owner"`
	AmountReserved float64 `json:"amountReserved"`
	AmountFree     float64 `json:"amountFree"`
	ExpenseCount   int     `json:"expenseCount"`
	// Expenses is null, not an empty list, when no expense references the
	// envelope.
	Expenses []Link `json:"expenses"`
	Self     string `json:"self"`
}
