// Package apperrors defines the error taxonomy shared across the HR engine.
// Handlers map these onto HTTP status codes: ValidationError -> 400,
// ErrUnauthorized/ErrForbidden -> 401/403, everything else -> 500 with a
// generic message.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError indicates malformed or out-of-range caller input. It is
// detected before any cohort aggregation runs and is safe to surface
// verbatim to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InternalError indicates a programming error: an assembled response failed
// its own schema, or an undefined value propagated into a metric. The cause
// is logged server-side and never leaked to the caller.
type InternalError struct {
	Op    string
	Cause error
}

func (e *InternalError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("internal error in %s", e.Op)
	}
	return fmt.Sprintf("internal error in %s: %v", e.Op, e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// NewInternal wraps cause as an InternalError attributed to op.
func NewInternal(op string, cause error) *InternalError {
	return &InternalError{Op: op, Cause: cause}
}

// IsInternal reports whether err is (or wraps) an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
