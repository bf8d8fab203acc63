package services

import (
	"errors"
	"fmt"
)

var (
	// ErrForecastUnavailable means the forecast provider failed or returned nothing.
	// No shifts are touched.
	ErrForecastUnavailable = errors.New("forecast unavailable")

	// ErrPersistence means a store write or read failed. For generation the range
	// state is unknown and the caller should retry.
	ErrPersistence = errors.New("persistence failure")

	// ErrRosterOrQuery means the roster or shift query failed before anything was committed
	ErrRosterOrQuery = errors.New("roster or shift query failed")
)

// CommitError reports a failure part way through committing assignments.
// Assignments in Applied were persisted and are not rolled back.
type CommitError struct {
	Period    string
	Applied   int
	Attempted int
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("failed to commit assignments for %s after %d of %d: %v", e.Period, e.Applied, e.Attempted, e.Err)
}

// Unwrap exposes both ErrPersistence and the store error to errors.Is / errors.As
func (e *CommitError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
