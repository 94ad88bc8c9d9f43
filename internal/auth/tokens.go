// Package auth issues and verifies the API's access tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"envelopes/internal/models"
)

// HeaderName is the request header carrying the access token, and also the
// token type label returned by login.
const HeaderName = "x-access-token"

// Claims carried by an access token.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens. It is constructed once at startup with
// the signing secret and injected wherever tokens are needed; no key material
// lives in package globals.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewManager creates a token manager.
func NewManager(secret, issuer, audience string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl}
}

// Issue signs an access token for a user. The subject is the user's email,
// the id claim their store key.
func (m *Manager) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			Subject:   u.Email,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token and returns its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithAudience(m.audience))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
