package allocator

import "github.com/jakechorley/staff-scheduler/pkg/core/model"

// ValidationError represents a constraint violation found in a finished run
type ValidationError struct {
	ShiftID       string
	ShiftDate     string
	EmployeeID    string
	CriterionName string
	Description   string
}

// Criterion defines a hard constraint on assigning an employee to a slot
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsCandidateValid determines if the employee may take the slot given the bookings
	// already in state. This acts as a veto - if ANY criterion returns false the
	// candidate is skipped.
	IsCandidateValid(state *RunState, employee *model.Employee, slot *Slot) bool

	// ValidateRunState checks the bookings made by a finished run.
	// Returns a slice of validation errors (empty if all valid)
	ValidateRunState(state *RunState) []ValidationError
}

// IsCandidateValid returns true only if every criterion accepts the candidate
func IsCandidateValid(state *RunState, employee *model.Employee, slot *Slot, criteria []Criterion) bool {
	for _, criterion := range criteria {
		if !criterion.IsCandidateValid(state, employee, slot) {
			return false
		}
	}
	return true
}

// ValidateRunState validates the final run state against all provided criteria.
// An empty slice indicates the run is valid.
func ValidateRunState(state *RunState, criteria []Criterion) []ValidationError {
	var errors []ValidationError
	for _, criterion := range criteria {
		errors = append(errors, criterion.ValidateRunState(state)...)
	}
	return errors
}
