package criteria

import (
	"fmt"

	"github.com/jakechorley/staff-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// PositionMatchCriterion requires the employee's position to equal the shift's required position.
// The allocator already draws candidates from the matching position bucket, so this mostly
// guards the final state.
type PositionMatchCriterion struct{}

// NewPositionMatchCriterion creates a new PositionMatchCriterion
func NewPositionMatchCriterion() *PositionMatchCriterion {
	return &PositionMatchCriterion{}
}

func (c *PositionMatchCriterion) Name() string {
	return "PositionMatch"
}

func (c *PositionMatchCriterion) IsCandidateValid(state *allocator.RunState, employee *model.Employee, slot *allocator.Slot) bool {
	return employee.Position == slot.Shift.RequiredPosition
}

func (c *PositionMatchCriterion) ValidateRunState(state *allocator.RunState) []allocator.ValidationError {
	var errors []allocator.ValidationError

	for _, booking := range state.NewBookings() {
		if booking.Employee.Position == booking.Slot.Shift.RequiredPosition {
			continue
		}

		errors = append(errors, allocator.ValidationError{
			ShiftID:       booking.Slot.Shift.ID,
			ShiftDate:     booking.Slot.Shift.Date.Format(model.DateLayout),
			EmployeeID:    booking.Employee.ID,
			CriterionName: c.Name(),
			Description: fmt.Sprintf("Employee position %s does not match required position %s",
				booking.Employee.Position, booking.Slot.Shift.RequiredPosition),
		})
	}

	return errors
}

// Default returns the hard constraints every assignment run enforces
func Default(weeklyHourLimit float64) []allocator.Criterion {
	return []allocator.Criterion{
		NewPositionMatchCriterion(),
		NewNoOverlapCriterion(),
		NewWeeklyHoursCriterion(weeklyHourLimit),
	}
}
