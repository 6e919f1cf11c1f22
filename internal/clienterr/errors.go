package clienterr

import (
	"errors"
	"fmt"
)

// Kind classifies a client-reported failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindState
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "ConflictError"
	case KindNotFound:
		return "NotFoundError"
	case KindForbidden:
		return "ForbiddenError"
	case KindState:
		return "StateError"
	default:
		return "UnknownError"
	}
}

// Error is a client-visible failure with a stable, matchable message.
// A failed mutation carrying this error has left all entities unchanged.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// New creates a new client error
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validationf creates a validation error (self-reference, malformed input)
func Validationf(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

// Conflictf creates a conflict error (duplicate or missing edge/resource)
func Conflictf(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

// NotFoundf creates a not-found error (unknown target)
func NotFoundf(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

// Forbiddenf creates a forbidden error (ownership/authorization violation)
func Forbiddenf(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

// Statef creates a state error (disabled-feature gating)
func Statef(format string, args ...interface{}) *Error {
	return New(KindState, format, args...)
}

// KindOf returns the kind of err, or KindUnknown for non-client errors
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// IsClient reports whether err is a client-reported failure
func IsClient(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}
