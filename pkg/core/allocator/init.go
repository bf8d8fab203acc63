package allocator

import (
	"fmt"
	"sort"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// BuildSlot resolves a shift's absolute interval and week for allocation
func BuildSlot(shift *model.Shift, hours float64) (*Slot, error) {
	interval, err := shift.Interval()
	if err != nil {
		return nil, fmt.Errorf("shift %s: %w", shift.ID, err)
	}

	return &Slot{
		Shift:    shift,
		Interval: interval,
		Week:     model.WeekStart(shift.Date),
		Hours:    hours,
	}, nil
}

// GroupByPosition buckets the roster by position, preserving roster order within each bucket
func GroupByPosition(employees []model.Employee) map[model.Position][]*model.Employee {
	buckets := make(map[model.Position][]*model.Employee)
	for i := range employees {
		employee := &employees[i]
		buckets[employee.Position] = append(buckets[employee.Position], employee)
	}
	return buckets
}

// SortShifts orders shifts by date then start time so earlier shifts get first pick
func SortShifts(shifts []*model.Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		return shifts[i].StartTime < shifts[j].StartTime
	})
}

// InitAllocation validates the config and builds the allocator with its initial state.
// Committed shifts are booked into the state as seeded bookings so that the run
// respects assignments made by earlier runs.
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	if config.Rand == nil {
		return nil, fmt.Errorf("allocation requires a random source")
	}
	if config.ShiftHours <= 0 {
		return nil, fmt.Errorf("shift hours must be positive, got %v", config.ShiftHours)
	}

	buckets := GroupByPosition(config.Employees)

	employeesByID := make(map[string]*model.Employee, len(config.Employees))
	for _, bucket := range buckets {
		for _, employee := range bucket {
			employeesByID[employee.ID] = employee
		}
	}

	state := NewRunState()
	for i := range config.Committed {
		shift := &config.Committed[i]
		if shift.AssignedEmployeeID == nil {
			continue
		}

		// Employees no longer on the roster cannot be candidates, so their history is irrelevant
		employee, ok := employeesByID[*shift.AssignedEmployeeID]
		if !ok {
			continue
		}

		slot, err := BuildSlot(shift, config.ShiftHours)
		if err != nil {
			return nil, fmt.Errorf("failed to seed committed shift: %w", err)
		}
		state.Book(employee, slot, true)
	}

	shifts := make([]*model.Shift, 0, len(config.Shifts))
	for i := range config.Shifts {
		shift := &config.Shifts[i]
		if shift.IsAssigned() {
			continue
		}
		shifts = append(shifts, shift)
	}
	SortShifts(shifts)

	return &Allocator{
		criteria:   config.Criteria,
		buckets:    buckets,
		shifts:     shifts,
		shiftHours: config.ShiftHours,
		rand:       config.Rand,
		state:      state,
	}, nil
}
