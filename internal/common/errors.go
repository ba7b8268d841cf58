// Package common defines shared sentinel errors and error types used across
// the storage, mapping and service layers of nutrilog. Callers should use
// errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrEmptyUpdate = errors.New("empty update")

	// Raw storage rows that cannot be mapped to a canonical record.
	ErrValidation = errors.New("validation error")

	// Caller input rejected before reaching storage (missing required fields etc.).
	ErrInvalidInput = errors.New("invalid input")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)

// StorageError wraps a connection or query failure reported by the database
// driver. The underlying message is preserved.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a StorageError for operation op.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("db error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
