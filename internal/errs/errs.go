// Package errs defines the API error type returned by services and rendered by the
// error middleware.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels usable with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("permission denied")
	ErrUnauthorized = errors.New("authentication credentials were not provided")
)

// ApiErr carries the HTTP status for an error surfaced to clients.
type ApiErr struct {
	StatusCode int
	Message    string
	Field      string // set for field-level validation errors
	Details    string
	kind       error
}

func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Unwrap lets errors.Is match the sentinel for the error kind.
func (e *ApiErr) Unwrap() error {
	return e.kind
}

func NewValidationError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, Message: message, kind: ErrValidation}
}

func NewFieldError(field, message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, Message: message, Field: field, kind: ErrValidation}
}

func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, Message: message, kind: ErrNotFound}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, Message: message, kind: ErrForbidden}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, Message: message, kind: ErrUnauthorized}
}

func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool    { return errors.Is(err, ErrForbidden) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
