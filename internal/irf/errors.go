package irf

import (
	"errors"
	"fmt"
)

// StackError represents a failure detected while stacking response functions.
//
// Stack errors are fatal for the operation that raised them: no partial
// result is produced, and retrying with the same inputs cannot succeed.
// The caller owns the decision to re-supply conformant inputs.
type StackError struct {
	// Code identifies the error category.
	Code StackErrorCode

	// Message is a human-readable description.
	Message string

	// Observation is the index of the offending observation, or -1 when the
	// error concerns the input set as a whole.
	Observation int
}

// StackErrorCode categorizes stacking errors.
type StackErrorCode string

const (
	// ErrCodeShapeMismatch indicates inputs with inconsistent energy binning.
	ErrCodeShapeMismatch StackErrorCode = "SHAPE_MISMATCH"

	// ErrCodeDegenerateInput indicates weights that make the exposure-weighted
	// mean undefined (zero total livetime, or a negative livetime).
	ErrCodeDegenerateInput StackErrorCode = "DEGENERATE_INPUT"
)

// Error implements the error interface.
func (e *StackError) Error() string {
	if e.Observation >= 0 {
		return fmt.Sprintf("%s: %s (observation %d)", e.Code, e.Message, e.Observation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsShapeMismatch returns true if the error is a binning mismatch.
// Uses errors.As to handle wrapped errors.
func IsShapeMismatch(err error) bool {
	var se *StackError
	if errors.As(err, &se) {
		return se.Code == ErrCodeShapeMismatch
	}
	return false
}

// IsDegenerateInput returns true if the error reports degenerate weights.
// Uses errors.As to handle wrapped errors.
func IsDegenerateInput(err error) bool {
	var se *StackError
	if errors.As(err, &se) {
		return se.Code == ErrCodeDegenerateInput
	}
	return false
}

func newShapeMismatch(obs int, format string, args ...any) *StackError {
	return &StackError{
		Code:        ErrCodeShapeMismatch,
		Message:     fmt.Sprintf(format, args...),
		Observation: obs,
	}
}

func newDegenerateInput(obs int, format string, args ...any) *StackError {
	return &StackError{
		Code:        ErrCodeDegenerateInput,
		Message:     fmt.Sprintf(format, args...),
		Observation: obs,
	}
}
