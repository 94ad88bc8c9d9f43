package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "envelopes/internal/errors"
	"envelopes/internal/middleware"
)

// callerID returns the authenticated user's ID set by the auth middleware.
func callerID(c *gin.Context) (int64, error) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	id, ok := v.(int64)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return id, nil
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid ID in request path.")
	}
	return id, nil
}

// requestBase reconstructs the external scheme://host prefix used when
// building self links and pagination URLs.
func requestBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

// respondWithError writes the {"error": message} body for an error. Non-app
// errors are deferred to the error middleware, which logs them and renders a
// generic 500.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.JSON(appErr.StatusCode, gin.H{"error": appErr.Message})
		c.Abort()
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// bindingError classifies a ShouldBindJSON failure: broken JSON gets the
// malformed-body message, everything else surfaces the validation detail.
func bindingError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperrors.ErrMalformedJSON
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}
