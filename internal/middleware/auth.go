package middleware

import (
	"github.com/gin-gonic/gin"

	"envelopes/internal/auth"
	apperrors "envelopes/internal/errors"
)

// Context keys for the authenticated caller.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// Auth verifies the x-access-token header and stores the caller's identity on
// the context.
func Auth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(auth.HeaderName)
		if raw == "" {
			abortWith(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Subject)
		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.JSON(err.StatusCode, gin.H{"error": err.Message})
	c.Abort()
}
