// Package apperror classifies service failures into the kinds the request
// boundary knows how to render.
package apperror

import (
	"errors"
	"net/http"
)

// Kind is a machine-readable failure class.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindForbidden       Kind = "FORBIDDEN"
	KindInternal        Kind = "INTERNAL"
)

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified service error. Message is safe to show to callers;
// Cause is kept for logs only.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by kind, so errors.Is(err, apperror.NotFound("")) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func InvalidArgument(message string) *Error { return New(KindInvalidArgument, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }

// Internal wraps a storage or infrastructure failure.
func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, message, cause)
}

// KindOf reports the kind of err; unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the caller-facing message. Internal errors never
// leak their cause.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
