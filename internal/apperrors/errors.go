package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so callers (and the HTTP layer) can react
// without parsing messages.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingField
	KindInvalidRange
	KindNotFound
	KindForbidden
	KindConflict
)

// Error carries a kind plus a human readable message. An optional
// underlying cause is kept for logging and errors.Is/As chains.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func MissingField(message string) *Error {
	return &Error{Kind: KindMissingField, Message: message}
}

func InvalidRange(message string) *Error {
	return &Error{Kind: KindInvalidRange, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Ensure returns err unchanged when it already carries a kind, and wraps
// anything else as internal with the given message.
func Ensure(err error, message string) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err, message)
}

// KindOf extracts the kind from an error chain. Anything that is not an
// *Error counts as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code the API layer responds
// with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindMissingField, KindInvalidRange:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
