// Package service contains the orchestrators of the consistency engine.
//
// Every mutating operation runs its steps in a fixed order: persist the
// primary aggregate, derive settlement state, mirror the cash-flow effect
// into the transaction ledger, then synchronize budget spend. The steps are
// independent writes; once the primary write has committed, failures in the
// later steps are logged and counted but never surfaced to the caller, and
// nothing is rolled back. Validation and not-found errors abort before any
// mutation.
package service

import (
	"errors"
	"fmt"

	"github.com/billfold/billfold/internal/storage"
)

var (
	// ErrValidation marks a missing or invalid field, an unknown
	// participant, or a bad status value. Maps to a 400.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an aggregate that does not exist or is not owned
	// by the caller. Maps to a 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an operation the aggregate's state forbids, such
	// as withdrawing more than a goal's balance. Maps to a 409.
	ErrConflict = errors.New("conflict")
)

// invalidf builds a wrapped validation error.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// mapNotFound converts a storage miss into the service taxonomy and leaves
// every other error untouched (those surface as internal failures).
func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
