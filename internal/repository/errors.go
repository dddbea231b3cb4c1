package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint rejects a write
	ErrConflict = errors.New("conflict: row already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError wraps a collaborator failure with the operation and entity it concerned.
type StoreError struct {
	Op       string
	EntityID string
	Err      error
}

// NewStoreError wraps err unless it is nil or already one of the sentinel errors above.
func NewStoreError(op, entityID string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	var existing *StoreError
	if errors.As(err, &existing) {
		return err
	}
	return &StoreError{Op: op, EntityID: entityID, Err: err}
}

func (e *StoreError) Error() string {
	if e.EntityID == "" {
		return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store error during %s (%s): %v", e.Op, e.EntityID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err is a collaborator failure.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
