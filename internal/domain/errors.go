package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals an index schema the backend rejected.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidRecord signals a record that fails validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrIndexUnavailable signals that the search index could not serve a call:
	// network failure, timeout, unknown index, rejected query, or a backend without text search.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrUnknownKind signals a record kind the caller does not know.
	ErrUnknownKind = errors.New("unknown kind")
)

// ValidationError wraps ErrInvalidRecord with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRecord.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRecord }

// NewValidationError creates a validation error for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
