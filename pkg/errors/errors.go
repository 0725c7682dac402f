// Package errors augments the standard errors with sentinel values
// that may wrap an underlying cause without losing their identity.
//
// Sentinels declared with New compare equal under errors.Is even after
// Wrap: wrapping produces a new value, so package-level sentinels are
// never mutated.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New declares a sentinel error with a fixed message.
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is a sentinel error which may carry a wrapped cause.
type Error struct {
	msg string
	err error
}

// Error message
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap the underlying cause, if any
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap returns a copy of the sentinel carrying err as its cause.
// The receiver is left untouched, so sentinels remain safe to share.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err}
}

// Is reports whether target is this sentinel or a copy of it.
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	return ok && e.msg == t.msg
}

// As finds the first error in err's chain that matches target
// (a shortcut to the standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to the standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
