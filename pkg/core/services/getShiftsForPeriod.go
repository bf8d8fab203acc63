package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/core/staffing"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

// PeriodStore defines the database operations needed for reading a period
type PeriodStore interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)
	FindShiftsInRange(ctx context.Context, start, end time.Time, filter db.AssignmentFilter) ([]model.Shift, error)
}

// PositionSummary counts filled and required shifts for one position
type PositionSummary struct {
	Position model.Position
	Required int
	Filled   int
}

// PeriodSummary aggregates a period's shifts
type PeriodSummary struct {
	Total     int
	Filled    int
	Positions []PositionSummary

	// LabourCost sums hours x hourly rate over assigned shifts whose employee has a rate
	LabourCost decimal.Decimal

	// UnratedShifts counts assigned shifts left out of LabourCost
	UnratedShifts int
}

// GetShiftsForPeriod returns every shift in [start, end] ordered by date and start time,
// with the assigned employee populated where there is one
func GetShiftsForPeriod(
	ctx context.Context,
	store PeriodStore,
	logger *zap.Logger,
	start, end time.Time,
) ([]model.Shift, error) {
	start, end = model.DateOnly(start), model.DateOnly(end)
	label := model.PeriodLabel(start)
	logger.Debug("Fetching shifts for period", zap.String("period", label))

	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	shifts, err := store.FindShiftsInRange(ctx, start, end, db.AnyAssignment)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch shifts for %s: %w", ErrPersistence, label, err)
	}

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch employees for %s: %w", ErrPersistence, label, err)
	}
	byID := employeesByID(employees)

	missing := 0
	for i := range shifts {
		if !shifts[i].IsAssigned() {
			continue
		}
		employee, ok := byID[*shifts[i].AssignedEmployeeID]
		if !ok {
			missing++
			continue
		}
		shifts[i].AssignedEmployee = employee
	}
	if missing > 0 {
		logger.Warn("Assigned employees missing from roster", zap.Int("count", missing))
	}

	sortShifts(shifts)

	logger.Debug("Fetched shifts", zap.Int("count", len(shifts)))
	return shifts, nil
}

// SummarisePeriod totals a period's shifts per position and estimates labour cost
func SummarisePeriod(shifts []model.Shift) PeriodSummary {
	summary := PeriodSummary{LabourCost: decimal.Zero}
	byPosition := make(map[model.Position]*PositionSummary)
	hours := decimal.NewFromInt(staffing.ShiftHours)

	for _, shift := range shifts {
		ps, ok := byPosition[shift.RequiredPosition]
		if !ok {
			ps = &PositionSummary{Position: shift.RequiredPosition}
			byPosition[shift.RequiredPosition] = ps
		}

		summary.Total++
		ps.Required++
		if !shift.IsAssigned() {
			continue
		}

		summary.Filled++
		ps.Filled++

		if shift.AssignedEmployee == nil || shift.AssignedEmployee.HourlyRate == nil {
			summary.UnratedShifts++
			continue
		}
		summary.LabourCost = summary.LabourCost.Add(hours.Mul(*shift.AssignedEmployee.HourlyRate))
	}

	for _, position := range model.Positions {
		if ps, ok := byPosition[position]; ok {
			summary.Positions = append(summary.Positions, *ps)
		}
	}

	return summary
}
