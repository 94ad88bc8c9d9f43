package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "envelopes/internal/errors"
)

// AcceptJSON rejects read requests whose Accept header does not allow
// application/json with a 406.
func AcceptJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsJSON(c.GetHeader("Accept")) {
			abortWith(c, apperrors.ErrNotAcceptable)
			return
		}
		c.Next()
	}
}

// ContentTypeJSON rejects write requests without a JSON content type with a
// 415.
func ContentTypeJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() != "application/json" {
			abortWith(c, apperrors.ErrUnsupportedMedia)
			return
		}
		c.Next()
	}
}

// An absent Accept header means the client takes anything.
func acceptsJSON(accept string) bool {
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch mediaType {
		case "application/json", "application/*", "*/*":
			return true
		}
	}
	return false
}
