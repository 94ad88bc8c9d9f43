package models

import "envelopes/internal/store"

// User is the stored user record. PasswordHash never appears in any view.
type User struct {
	ID           int64
	Email        string
	First        string
	Last         string
	PasswordHash string
}

// Doc returns the stored property map.
func (u *User) Doc() map[string]any {
	return map[string]any{
		"email":    u.Email,
		"first":    u.First,
		"last":     u.Last,
		"password": u.PasswordHash,
	}
}

// UserFromEntity decodes a stored user. Projected entities simply leave the
// omitted fields zero.
func UserFromEntity(e store.Entity) *User {
	return &User{
		ID:           e.Key.ID,
		Email:        propString(e.Props, "email"),
		First:        propString(e.Props, "first"),
		Last:         propString(e.Props, "last"),
		PasswordHash: propString(e.Props, "password"),
	}
}

// UserView is the wire representation of a user.
type UserView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	First string `json:"first"`
	Last  string `json:"last"`
	Self  string `json:"self"`
}
