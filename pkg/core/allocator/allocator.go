package allocator

import (
	"math/rand"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// Allocator walks unassigned shifts in chronological order and books the first
// shuffled candidate that every criterion accepts
type Allocator struct {
	criteria   []Criterion
	buckets    map[model.Position][]*model.Employee
	shifts     []*model.Shift
	shiftHours float64
	rand       *rand.Rand
	state      *RunState
}

// AllocationConfig contains the configuration for creating a new Allocator
type AllocationConfig struct {
	// Criteria are the hard constraints every assignment must satisfy
	Criteria []Criterion

	// Employees is the full roster
	Employees []model.Employee

	// Shifts to fill. Already assigned shifts are ignored.
	Shifts []model.Shift

	// Committed shifts assigned by earlier runs. They are booked into the run state
	// before allocation starts but are never reassigned.
	Committed []model.Shift

	// ShiftHours is the number of hours each shift counts towards weekly limits
	ShiftHours float64

	// Rand drives the candidate shuffle. Seed it for reproducible runs.
	Rand *rand.Rand
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// State is the final run state
	State *RunState

	// Assignments made by this run, in the order shifts were processed
	Assignments []model.Assignment

	// Unfilled shifts for which no candidate passed every criterion
	Unfilled []*model.Shift

	// ValidationErrors contains any violations found in the final state
	ValidationErrors []ValidationError

	// Success indicates every shift was filled with no validation errors
	Success bool
}

// Allocate runs the main allocation loop
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	allocator, err := InitAllocation(config)
	if err != nil {
		return nil, err
	}

	assignments := make([]model.Assignment, 0, len(allocator.shifts))
	unfilled := make([]*model.Shift, 0)

	for _, shift := range allocator.shifts {
		employee, err := allocator.fillShift(shift)
		if err != nil {
			return nil, err
		}

		if employee == nil {
			unfilled = append(unfilled, shift)
			continue
		}

		assignments = append(assignments, model.Assignment{
			ShiftID:    shift.ID,
			EmployeeID: employee.ID,
		})
	}

	validationErrors := ValidateRunState(allocator.state, allocator.criteria)

	return &AllocationOutcome{
		State:            allocator.state,
		Assignments:      assignments,
		Unfilled:         unfilled,
		ValidationErrors: validationErrors,
		Success:          len(unfilled) == 0 && len(validationErrors) == 0,
	}, nil
}

// fillShift books the first valid shuffled candidate for the shift.
// Returns nil if nobody qualifies.
func (a *Allocator) fillShift(shift *model.Shift) (*model.Employee, error) {
	candidates := a.buckets[shift.RequiredPosition]
	if len(candidates) == 0 {
		return nil, nil
	}

	slot, err := BuildSlot(shift, a.shiftHours)
	if err != nil {
		return nil, err
	}

	for _, candidate := range a.shuffle(candidates) {
		if !IsCandidateValid(a.state, candidate, slot, a.criteria) {
			continue
		}

		a.state.Book(candidate, slot, false)
		return candidate, nil
	}

	return nil, nil
}

// shuffle returns a uniformly random permutation of the candidates without
// modifying the bucket
func (a *Allocator) shuffle(candidates []*model.Employee) []*model.Employee {
	shuffled := make([]*model.Employee, len(candidates))
	copy(shuffled, candidates)
	a.rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
