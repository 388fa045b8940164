package core

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a lookup for a record that does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input before any side effect occurs.
// Field names the offending request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
