package types

import "fmt"

// ValidationError reports a missing or malformed request field. It is
// surfaced synchronously to the caller before any record is created.
type ValidationError struct {
	msg string
}

// NewValidationError creates a new validation error
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// BatchInsertError reports that a batch of provisioning records could not be
// inserted. The whole batch is rolled back, no partial rows remain.
type BatchInsertError struct {
	Err error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("batch insert failed: %v", e.Err)
}

// Unwrap returns the underlying insert failure
func (e *BatchInsertError) Unwrap() error {
	return e.Err
}
