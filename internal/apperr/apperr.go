// Package apperr defines the error kinds surfaced by the account and content
// services and their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"

	"github.com/samber/oops"
)

// Kind classifies a service error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindStore
	KindUnavailable
)

// String returns the wire code for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	case KindAuth:
		return "INVALID_CREDENTIALS"
	case KindStore:
		return "STORE_ERROR"
	case KindUnavailable:
		return "DATABASE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict reports a unique-key violation.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Auth reports bad credentials. Callers must use the same message for every
// credential failure.
func Auth(msg string) error {
	return &Error{Kind: KindAuth, Message: msg}
}

// Store wraps a persistence failure. The cause keeps the operation name for logs.
func Store(op string, err error) error {
	return &Error{
		Kind:    KindStore,
		Message: "database operation failed",
		Err:     oops.In("store").Code(KindStore.String()).With("operation", op).Wrap(err),
	}
}

// Unavailable wraps a failure caused by the database link being down.
func Unavailable(op string, err error) error {
	return &Error{
		Kind:    KindUnavailable,
		Message: "database unavailable",
		Err:     oops.In("store").Code(KindUnavailable.String()).With("operation", op).Wrap(err),
	}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
