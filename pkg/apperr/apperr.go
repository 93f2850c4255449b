// Package apperr defines the application error taxonomy and its mapping
// to HTTP status codes.
//
// Services return *apperr.Error values; controllers hand them to
// response.AppError which picks the right status and message. Anything
// that is not an *apperr.Error is treated as an internal failure and its
// cause is never sent to the client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping and logging.
type Kind int

const (
	// Internal is an unexpected failure (default). Mapped to 500.
	Internal Kind = iota
	// NotFound: a referenced row does not exist. Mapped to 404.
	NotFound
	// Conflict: a uniqueness rule was violated. Mapped to 409.
	Conflict
	// Validation: malformed or empty input. Mapped to 422.
	Validation
	// BusinessRule: input is well-formed but violates a domain rule,
	// e.g. insufficient stock. Mapped to 400.
	BusinessRule
	// Unauthorized: missing/invalid credentials. Mapped to 401.
	Unauthorized
	// Forbidden: authenticated but not allowed. Mapped to 403.
	Forbidden
	// Unavailable: a required collaborator is down. Mapped to 503.
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Validation:
		return "validation"
	case BusinessRule:
		return "business_rule"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Unavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code this kind maps to.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Validation:
		return http.StatusUnprocessableEntity
	case BusinessRule:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a classified error. The cause is kept for
// logs and errors.Is/As but never shown to the client.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the user-facing message for err. Internal errors get
// a generic message so the original cause is not leaked.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Internal {
		return ae.Message
	}
	return "Internal Server Error"
}
