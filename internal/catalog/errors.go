package catalog

import (
	"errors"
	"fmt"
)

// StoreError represents a catalog storage failure.
type StoreError struct {
	// Code identifies the error category.
	Code StoreErrorCode

	// Message is a human-readable description.
	Message string

	// ObsID identifies the affected observation, when known.
	ObsID int64
}

// StoreErrorCode categorizes storage errors.
type StoreErrorCode string

const (
	// ErrCodeNotFound indicates a missing observation.
	ErrCodeNotFound StoreErrorCode = "NOT_FOUND"

	// ErrCodeConflict indicates a write colliding with existing data.
	ErrCodeConflict StoreErrorCode = "CONFLICT"

	// ErrCodeIO indicates an underlying database failure.
	ErrCodeIO StoreErrorCode = "IO"
)

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.ObsID != 0 {
		return fmt.Sprintf("%s: %s (obs %d)", e.Code, e.Message, e.ObsID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if the error reports a missing observation.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeNotFound
	}
	return false
}

// IsConflict returns true if the error reports a write conflict.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == ErrCodeConflict
	}
	return false
}
