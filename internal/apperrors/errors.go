// Package apperrors defines the error kinds shared by services and handlers.
// Services return *Error values; handlers translate the kind into an HTTP
// status so no raw storage error crosses the API boundary.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the presentation layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindState        Kind = "state"
	KindStorage      Kind = "storage"
	KindUnauthorized Kind = "unauthorized"
	KindIO           Kind = "io"
)

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports bad input; no mutation was attempted.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing referenced entity.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports an invariant violation (duplicate seat, open session, ...).
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// State reports an operation disallowed in the current lifecycle state.
func State(format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an underlying store failure.
func Storage(err error, msg string) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// Unauthorized reports a failed authentication check.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// IO wraps a filesystem failure (backups).
func IO(err error, msg string) *Error {
	return &Error{Kind: KindIO, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindStorage when err is not an *Error.
// Unknown errors are treated as storage failures so they surface as 500s.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
