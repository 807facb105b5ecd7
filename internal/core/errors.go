package core

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the store or the service matches one
// of these through errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("line item not found")
	ErrDataIntegrity = errors.New("data integrity error")
	ErrStorage       = errors.New("storage error")
)

// ValidationError reports a missing or malformed field on Create or Update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports an id that has no row.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("line item %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DataIntegrityError reports a persisted row that cannot take part in
// aggregation.
type DataIntegrityError struct {
	ID     int64
	Field  string
	Value  string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("line item %d: stored %s %q %s", e.ID, e.Field, e.Value, e.Reason)
}

func (e *DataIntegrityError) Unwrap() error { return ErrDataIntegrity }

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }
