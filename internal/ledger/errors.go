package ledger

import (
	"errors"
	"fmt"
)

// PolicyCode categorizes strict-mode precondition violations.
type PolicyCode string

const (
	// CodeAlreadyTracked indicates add was asked to track a path that
	// already has a Record.
	CodeAlreadyTracked PolicyCode = "ALREADY_TRACKED"

	// CodeNotTracked indicates accept/remove was asked to operate on a
	// path with no Record.
	CodeNotTracked PolicyCode = "NOT_TRACKED"
)

// PolicyError represents a strict-mode violation of an operation's
// precondition. In tolerant mode the same condition is downgraded to
// an informational Outcome and no PolicyError is produced.
type PolicyError struct {
	Code PolicyCode
	Path string
}

// Error implements the error interface.
func (e *PolicyError) Error() string {
	switch e.Code {
	case CodeAlreadyTracked:
		return fmt.Sprintf("%s: file already tracked: %s", e.Code, e.Path)
	case CodeNotTracked:
		return fmt.Sprintf("%s: file is not tracked: %s", e.Code, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Path)
}

// IsAlreadyTracked returns true if the error is an already-tracked
// policy violation. Uses errors.As to handle wrapped errors.
func IsAlreadyTracked(err error) bool {
	var pe *PolicyError
	if errors.As(err, &pe) {
		return pe.Code == CodeAlreadyTracked
	}
	return false
}

// IsNotTracked returns true if the error is a not-tracked policy
// violation. Uses errors.As to handle wrapped errors.
func IsNotTracked(err error) bool {
	var pe *PolicyError
	if errors.As(err, &pe) {
		return pe.Code == CodeNotTracked
	}
	return false
}

// StoreError represents a failure of the persisted store itself
// (corruption, lock contention, disk full). Fatal for the whole
// invocation: once the store's integrity cannot be assumed, no
// partial-batch continuation is attempted.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError returns true if the error is a store failure.
// Uses errors.As to handle wrapped errors.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
