package criteria

import (
	"fmt"

	"github.com/jakechorley/staff-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// NoOverlapCriterion prevents an employee from holding two shifts whose intervals intersect.
//
// Validity:
//   - Returns false if the slot overlaps any interval the employee already holds in the run,
//     including seeded bookings from earlier runs
//   - Intervals that merely touch (one ends as the next starts) do not overlap
type NoOverlapCriterion struct{}

// NewNoOverlapCriterion creates a new NoOverlapCriterion
func NewNoOverlapCriterion() *NoOverlapCriterion {
	return &NoOverlapCriterion{}
}

func (c *NoOverlapCriterion) Name() string {
	return "NoOverlap"
}

func (c *NoOverlapCriterion) IsCandidateValid(state *allocator.RunState, employee *model.Employee, slot *allocator.Slot) bool {
	for _, interval := range state.BookedIntervals(employee.ID) {
		if interval.Overlaps(slot.Interval) {
			return false
		}
	}
	return true
}

func (c *NoOverlapCriterion) ValidateRunState(state *allocator.RunState) []allocator.ValidationError {
	var errors []allocator.ValidationError

	for employeeID, bookings := range state.Bookings {
		for i := 0; i < len(bookings); i++ {
			for j := i + 1; j < len(bookings); j++ {
				a, b := bookings[i], bookings[j]

				// Clashes between two committed shifts predate this run
				if a.Seeded && b.Seeded {
					continue
				}
				if !a.Slot.Interval.Overlaps(b.Slot.Interval) {
					continue
				}

				// Report against the booking made by this run
				offending := b
				if b.Seeded {
					offending = a
				}
				other := a
				if offending == a {
					other = b
				}

				errors = append(errors, allocator.ValidationError{
					ShiftID:       offending.Slot.Shift.ID,
					ShiftDate:     offending.Slot.Shift.Date.Format(model.DateLayout),
					EmployeeID:    employeeID,
					CriterionName: c.Name(),
					Description: fmt.Sprintf("Employee holds overlapping shifts %s (%s-%s) and %s (%s-%s)",
						offending.Slot.Shift.ID, offending.Slot.Shift.StartTime, offending.Slot.Shift.EndTime,
						other.Slot.Shift.ID, other.Slot.Shift.StartTime, other.Slot.Shift.EndTime),
				})
			}
		}
	}

	return errors
}
