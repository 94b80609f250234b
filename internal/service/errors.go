package service

import (
	"errors"
	"fmt"

	"smartnotes/internal/storage"
)

var (
	// ErrNotFound is returned when a requested note does not exist.
	ErrNotFound = storage.ErrNotFound
	// ErrVersionConflict is returned when an update carries a stale version.
	ErrVersionConflict = storage.ErrVersionConflict
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// StorageError reports that the persistence layer failed during Op.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr classifies a repository error. Sentinel errors callers can act
// on pass through unchanged; anything else becomes a *StorageError.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
