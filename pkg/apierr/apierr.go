// Package apierr provides the structured errors surfaced by the semantic
// layer: a message, an HTTP-status-equivalent classification, and an
// optional list of sub-messages for batch validation failures.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a classified request error.
type Error struct {
	// Status is the HTTP-equivalent classification (400, 401, 404)
	Status int
	// Message names the failing entity and its container
	Message string
	// Details carries per-item messages for batched validation failures
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// New builds an error with an explicit status classification.
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a 404-classified error for a missing named entity.
func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

// InvalidInput builds a 400-classified error for bad input.
func InvalidInput(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// Unauthorized builds a 401-classified error.
func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

// Batch builds a 400-classified error aggregating multiple validation
// messages. Details keep their input order.
func Batch(message string, details []string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: message,
		Details: append([]string(nil), details...),
	}
}

// StatusOf returns the HTTP-equivalent status of err, or 500 when err is
// not a structured error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// IsStructured reports whether err is (or wraps) a structured error.
func IsStructured(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// IsNotFound reports whether err carries a 404 classification.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsInvalidInput reports whether err carries a 400 classification.
func IsInvalidInput(err error) bool {
	return StatusOf(err) == http.StatusBadRequest
}

// IsUnauthorized reports whether err carries a 401 classification.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
