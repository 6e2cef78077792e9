// Package apperr defines the typed error taxonomy shared by all services.
// Handlers map each kind to an HTTP status; services never return bare
// gorm/driver errors to the transport layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for transport mapping and retry policy.
type Kind int

const (
	// KindValidation — malformed or missing input. Not retryable.
	KindValidation Kind = iota
	// KindNotFound — referenced entity does not exist. Not retryable.
	KindNotFound
	// KindConflict — state precondition failed (already closed, duplicate
	// open, lost optimistic update). Not retryable without a fresh read.
	KindConflict
	// KindPersistence — the storage call itself failed. Transient; the whole
	// operation may be retried.
	KindPersistence
)

// Error carries a kind, a user-safe message, and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can use errors.Is with the sentinel
// constructors' zero-cause values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure with a user-safe message.
func Persistence(err error, msg string) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindPersistence for
// anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
