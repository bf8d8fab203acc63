package criteria

import (
	"fmt"

	"github.com/jakechorley/staff-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// WeeklyHoursCriterion caps the hours an employee may hold within one Sunday-to-Saturday week.
//
// Validity:
//   - Returns false if taking the slot would push the employee's hours for the slot's
//     week (seeded plus new bookings) above the limit
//   - Reaching the limit exactly is allowed
type WeeklyHoursCriterion struct {
	limit float64
}

// NewWeeklyHoursCriterion creates a new WeeklyHoursCriterion with the given hour limit
func NewWeeklyHoursCriterion(limit float64) *WeeklyHoursCriterion {
	return &WeeklyHoursCriterion{limit: limit}
}

func (c *WeeklyHoursCriterion) Name() string {
	return "WeeklyHours"
}

// Limit returns the weekly hour cap
func (c *WeeklyHoursCriterion) Limit() float64 {
	return c.limit
}

func (c *WeeklyHoursCriterion) IsCandidateValid(state *allocator.RunState, employee *model.Employee, slot *allocator.Slot) bool {
	return state.HoursInWeek(employee.ID, slot.Week)+slot.Hours <= c.limit
}

func (c *WeeklyHoursCriterion) ValidateRunState(state *allocator.RunState) []allocator.ValidationError {
	var errors []allocator.ValidationError

	for employeeID, bookings := range state.Bookings {
		// Only weeks touched by this run are our responsibility
		reported := make(map[string]bool)
		for _, booking := range bookings {
			if booking.Seeded {
				continue
			}

			week := booking.Slot.Week
			weekKey := week.Format(model.DateLayout)
			if reported[weekKey] {
				continue
			}

			hours := state.HoursInWeek(employeeID, week)
			if hours <= c.limit {
				continue
			}

			reported[weekKey] = true
			errors = append(errors, allocator.ValidationError{
				ShiftID:       booking.Slot.Shift.ID,
				ShiftDate:     booking.Slot.Shift.Date.Format(model.DateLayout),
				EmployeeID:    employeeID,
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("Employee holds %.1f hours in week starting %s, limit is %.1f", hours, weekKey, c.limit),
			})
		}
	}

	return errors
}
