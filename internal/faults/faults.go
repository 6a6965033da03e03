package faults

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels shared by every service. Callers classify failures
// with errors.Is against these rather than matching error strings.
var (
	// ErrValidation indicates required input was missing or malformed; nothing was persisted.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStoreUnavailable indicates the backing store could not be reached or failed unexpectedly.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConflict indicates a concurrent write was rejected by a storage constraint.
	ErrConflict = errors.New("conflicting write")
)

// ServiceError pairs a dot-separated operation code with its cause.
type ServiceError struct {
	code string
	err  error
}

// New builds a ServiceError whose code is "<operation>.<reason>".
func New(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code returns the operation code carried by the error.
func (e *ServiceError) Code() string {
	return e.code
}

// Code extracts the operation code from err, or "" when it carries none.
func Code(err error) string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code()
	}
	return ""
}
