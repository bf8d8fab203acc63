package allocator

import (
	"time"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// Slot is a shift prepared for allocation with its absolute interval and week resolved
type Slot struct {
	Shift *model.Shift

	// Interval is the absolute [start, end) span, wrapped past midnight where needed
	Interval model.Interval

	// Week is the Sunday 00:00 UTC that starts the shift's week
	Week time.Time

	// Hours is the number of hours the shift counts towards the weekly limit
	Hours float64
}

// Booking records an employee holding a slot
type Booking struct {
	Employee *model.Employee
	Slot     *Slot

	// Seeded bookings were committed by an earlier run and are only used
	// to constrain this one
	Seeded bool
}

// RunState tracks every booking made (or seeded) during a single allocation run.
// It is the only authority for overlap and weekly hour checks and is discarded
// once the run completes.
type RunState struct {
	// Bookings per employee ID in the order they were made
	Bookings map[string][]*Booking

	// WeeklyHours per employee ID, keyed by week start
	WeeklyHours map[string]map[time.Time]float64
}

// NewRunState creates an empty RunState
func NewRunState() *RunState {
	return &RunState{
		Bookings:    make(map[string][]*Booking),
		WeeklyHours: make(map[string]map[time.Time]float64),
	}
}

// Book records the employee against the slot and accumulates its hours
func (rs *RunState) Book(employee *model.Employee, slot *Slot, seeded bool) *Booking {
	booking := &Booking{Employee: employee, Slot: slot, Seeded: seeded}
	rs.Bookings[employee.ID] = append(rs.Bookings[employee.ID], booking)

	weeks, ok := rs.WeeklyHours[employee.ID]
	if !ok {
		weeks = make(map[time.Time]float64)
		rs.WeeklyHours[employee.ID] = weeks
	}
	weeks[slot.Week] += slot.Hours

	return booking
}

// BookedIntervals returns every interval the employee holds in this run
func (rs *RunState) BookedIntervals(employeeID string) []model.Interval {
	bookings := rs.Bookings[employeeID]
	intervals := make([]model.Interval, len(bookings))
	for i, b := range bookings {
		intervals[i] = b.Slot.Interval
	}
	return intervals
}

// HoursInWeek returns the hours the employee holds in the week starting at week
func (rs *RunState) HoursInWeek(employeeID string, week time.Time) float64 {
	return rs.WeeklyHours[employeeID][week]
}

// NewBookings returns the bookings made by this run, excluding seeded ones
func (rs *RunState) NewBookings() []*Booking {
	var bookings []*Booking
	for _, employeeBookings := range rs.Bookings {
		for _, b := range employeeBookings {
			if !b.Seeded {
				bookings = append(bookings, b)
			}
		}
	}
	return bookings
}
