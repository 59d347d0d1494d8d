// Package serrors provides semantic error kinds used across the backlink
// checker. A Kind tells the caller what went wrong (bad input, missing column,
// upstream quota) independently of the concrete cause, so the CLI and the HTTP
// API can each decide how to surface it.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel).
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrSchema indicates an input table lacks the required URL column.
	ErrSchema = NewKind("SCHEMA")
	// ErrBadRequest indicates the caller sent invalid data.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout indicates an enrichment call ran past its deadline.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates the enrichment provider is temporarily unavailable.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited indicates the enrichment provider throttled the request.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrQuotaExhausted indicates the enrichment account ran out of quota.
	// Unlike ErrRateLimited it is not expected to clear by waiting.
	ErrQuotaExhausted = NewKind("QUOTA_EXHAUSTED")
)

// Error carries a kind, an optional wrapped cause and an optional message.
// errors.Is and errors.As match either the kind or the cause.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with a formatted message and no cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error that wraps err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches against the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As enables errors.As against the kind sentinel or the wrapped cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the semantic kind, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// KindOf returns the first Kind found in err's chain, or nil when err carries
// no semantic kind.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

// Retryable reports whether err is worth retrying after a pause.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}
