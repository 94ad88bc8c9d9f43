// Package errors provides the application error taxonomy. All service-layer
// errors are AppErrors so the HTTP boundary can translate them into consistent
// responses without leaking internal details to clients.
package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// The status code is carried here but only rendered at the HTTP boundary.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// NotFound returns a kind-specific not-found error, e.g. "Envelope ID 42 not found."
func NotFound(kind string, id int64) *AppError {
	sentinel := ErrNotFound
	switch kind {
	case "User":
		sentinel = ErrUserNotFound
	case "Envelope":
		sentinel = ErrEnvelopeNotFound
	case "Expense":
		sentinel = ErrExpenseNotFound
	}
	return WithMessage(sentinel, fmt.Sprintf("%s ID %d not found.", kind, id))
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Header 'x-access-token' required.", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token.", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password.", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "You are not authorized to make changes to this resource.", StatusCode: http.StatusForbidden}
)

// Request shape errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input.", StatusCode: http.StatusBadRequest}
	ErrMalformedJSON    = &AppError{Code: "MALFORMED_JSON", Message: "JSON parsing error in request body.", StatusCode: http.StatusBadRequest}
	ErrNotAcceptable    = &AppError{Code: "NOT_ACCEPTABLE", Message: "Header: 'Accept: application/json' required.", StatusCode: http.StatusNotAcceptable}
	ErrUnsupportedMedia = &AppError{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Header: 'Content-Type: application/json' required.", StatusCode: http.StatusUnsupportedMediaType}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Resource not found.", StatusCode: http.StatusNotFound}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred.", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found.", StatusCode: http.StatusNotFound}
	// Duplicate email is a 400 here, not a 409: the public contract treats it
	// as a plain bad request.
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "Another user already exists with that email.", StatusCode: http.StatusBadRequest}
)

// Envelope and expense errors.
var (
	ErrEnvelopeNotFound = &AppError{Code: "ENVELOPE_NOT_FOUND", Message: "Envelope not found.", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound  = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found.", StatusCode: http.StatusNotFound}
	// Unassigning an expense from an envelope it is not actually in is
	// rejected rather than silently ignored.
	ErrNotInEnvelope = &AppError{Code: "NOT_IN_ENVELOPE", Message: "Expense is not in the given envelope.", StatusCode: http.StatusBadRequest}
)
