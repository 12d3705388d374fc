// Package apperr defines the error kinds surfaced by the catalog and review services.
//
// Services return *Error values; handlers translate them once, through httpx.WriteError:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//
//	var e *apperr.Error
//	if errors.As(err, &e) {
//		status := e.HTTPStatus()
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error. The string value doubles as the response error code.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "FORBIDDEN"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindPersistence  Kind = "PERSISTENCE_ERROR"
)

// HTTPStatus maps a kind to its response status.
// Conflicts are reported as 400: duplicate reviews have always been a client error on this API.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ClientCaused reports whether the caller can fix the request.
func (k Kind) ClientCaused() bool {
	return k != KindPersistence
}

// Error is a classified error with a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the response status for this error.
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// Cause returns the wrapped error, if any.
func (e *Error) Cause() error {
	return e.cause
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details, cause: err}
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, cause: e.cause}
}

// Sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation error"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrPersistence  = &Error{Kind: KindPersistence, Message: "persistence error"}
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Persistence wraps a store failure. A nil cause is allowed.
func Persistence(msg string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, cause: cause}
}

// KindOf classifies any error. Unclassified errors count as persistence failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// From returns err as an *Error, wrapping unclassified errors as persistence failures with msg.
func From(err error, msg string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Persistence(msg, err)
}
