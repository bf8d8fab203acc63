package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staff-scheduler/pkg/core/allocator/criteria"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/core/staffing"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

// AssignEmployeesStore defines the database operations needed for assigning employees
type AssignEmployeesStore interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)
	FindShiftsInRange(ctx context.Context, start, end time.Time, filter db.AssignmentFilter) ([]model.Shift, error)
	AssignShifts(ctx context.Context, assignments []model.Assignment) ([]model.Assignment, error)
}

// Notifier tells an employee about their newly assigned shifts
type Notifier interface {
	SendScheduleNotification(ctx context.Context, email, name string, shifts []model.Shift, periodLabel string) error
}

// AssignOptions controls a single assignment run
type AssignOptions struct {
	// Seed for the candidate shuffle. Zero means seed from the clock.
	Seed int64

	// DryRun computes assignments without committing or notifying
	DryRun bool

	// IgnoreCommitted skips booking earlier assignments into the run state, so
	// limits only cover shifts assigned in this run
	IgnoreCommitted bool
}

// AssignEmployeesResult contains the outcome of an assignment run
type AssignEmployeesResult struct {
	PeriodLabel          string
	Seed                 int64
	Attempted            int
	AssignedCount        int
	Unfilled             int
	Notified             int
	NotificationFailures int

	// Assignments holds the applied assignments, or the prepared ones for a dry run
	Assignments []model.Assignment

	ValidationErrors []allocator.ValidationError
}

// AssignEmployees fills the unassigned shifts in [start, end] with matching employees,
// commits them with still-unassigned guards, and notifies each affected employee once.
func AssignEmployees(
	ctx context.Context,
	store AssignEmployeesStore,
	notifier Notifier,
	cfg *config.Config,
	logger *zap.Logger,
	opts AssignOptions,
	start, end time.Time,
) (*AssignEmployeesResult, error) {
	start, end = model.DateOnly(start), model.DateOnly(end)
	label := model.PeriodLabel(start)
	logger.Debug("Starting assignEmployees",
		zap.String("period", label),
		zap.Int64("seed", opts.Seed),
		zap.Bool("dry_run", opts.DryRun))

	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}
	result := &AssignEmployeesResult{PeriodLabel: label, Seed: seed, Assignments: []model.Assignment{}}

	// Step 1: Fetch roster and open shifts
	logger.Debug("Fetching employees")
	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: failed to fetch employees: %w", ErrRosterOrQuery, label, err)
	}

	logger.Debug("Fetching unassigned shifts")
	shifts, err := store.FindShiftsInRange(ctx, start, end, db.Unassigned)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: failed to fetch shifts: %w", ErrRosterOrQuery, label, err)
	}

	if len(shifts) == 0 {
		logger.Info("No unassigned shifts in period", zap.String("period", label))
		return result, nil
	}

	// Step 2: Fetch shifts committed by earlier runs that can collide with this range
	var committed []model.Shift
	if !opts.IgnoreCommitted {
		from, to := committedWindow(start, end)
		committed, err = store.FindShiftsInRange(ctx, from, to, db.Assigned)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: failed to fetch committed shifts: %w", ErrRosterOrQuery, label, err)
		}
		logger.Debug("Fetched committed shifts",
			zap.String("from", from.Format(model.DateLayout)),
			zap.String("to", to.Format(model.DateLayout)),
			zap.Int("count", len(committed)))
	}

	// Step 3: Run the allocator
	outcome, err := allocator.Allocate(allocator.AllocationConfig{
		Criteria:   criteria.Default(staffing.WeeklyHourLimit),
		Employees:  employees,
		Shifts:     shifts,
		Committed:  committed,
		ShiftHours: staffing.ShiftHours,
		Rand:       rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate shifts for %s: %w", label, err)
	}

	result.Attempted = len(outcome.Assignments)
	result.Unfilled = len(outcome.Unfilled)
	result.ValidationErrors = outcome.ValidationErrors

	for _, verr := range outcome.ValidationErrors {
		logger.Warn("Allocation validation error",
			zap.String("criterion", verr.CriterionName),
			zap.String("shift_id", verr.ShiftID),
			zap.String("employee_id", verr.EmployeeID),
			zap.String("description", verr.Description))
	}

	logger.Debug("Allocation complete",
		zap.Int("attempted", result.Attempted),
		zap.Int("unfilled", result.Unfilled))

	if opts.DryRun {
		result.Assignments = outcome.Assignments
		logger.Info("Dry run, not committing assignments",
			zap.String("period", label),
			zap.Int("prepared", result.Attempted))
		return result, nil
	}

	if result.Attempted == 0 {
		logger.Info("No shifts could be filled", zap.String("period", label), zap.Int("unfilled", result.Unfilled))
		return result, nil
	}

	// Step 4: Commit
	applied, commitErr := store.AssignShifts(ctx, outcome.Assignments)
	result.Assignments = applied
	result.AssignedCount = len(applied)

	if commitErr == nil && result.AssignedCount < result.Attempted {
		logger.Warn("Some shifts were assigned by another run before commit",
			zap.String("period", label),
			zap.Int("attempted", result.Attempted),
			zap.Int("applied", result.AssignedCount))
	}

	// Step 5: Notify whoever got shifts, including a partial commit
	if cfg.Notifications.Enabled && notifier != nil {
		result.Notified, result.NotificationFailures = notifyEmployees(ctx, notifier, logger, label, employees, shifts, applied)
	} else {
		logger.Debug("Notifications disabled")
	}

	if commitErr != nil {
		return result, &CommitError{
			Period:    label,
			Applied:   result.AssignedCount,
			Attempted: result.Attempted,
			Err:       commitErr,
		}
	}

	logger.Info("Employees assigned",
		zap.String("period", label),
		zap.Int("assigned", result.AssignedCount),
		zap.Int("unfilled", result.Unfilled),
		zap.Int("notified", result.Notified))

	return result, nil
}

// committedWindow covers every week touched by [start, end], plus the day before
// so an overnight shift ending on start is seen
func committedWindow(start, end time.Time) (time.Time, time.Time) {
	from := model.WeekStart(start).AddDate(0, 0, -1)
	to := model.WeekStart(end).AddDate(0, 0, 6)
	return from, to
}

// notifyEmployees sends one notification per employee. Failures are logged and counted.
func notifyEmployees(
	ctx context.Context,
	notifier Notifier,
	logger *zap.Logger,
	label string,
	employees []model.Employee,
	shifts []model.Shift,
	applied []model.Assignment,
) (int, int) {
	byID := employeesByID(employees)

	shiftsByID := make(map[string]model.Shift, len(shifts))
	for _, shift := range shifts {
		shiftsByID[shift.ID] = shift
	}

	// Emails are unique on the roster, so this is one message per employee
	type recipient struct {
		name   string
		shifts []model.Shift
	}
	recipients := make(map[string]*recipient)
	order := make([]string, 0)

	for _, assignment := range applied {
		employee, ok := byID[assignment.EmployeeID]
		if !ok {
			continue
		}
		if employee.Email == "" {
			logger.Warn("Employee has no email, skipping notification",
				zap.String("employee_id", employee.ID),
				zap.String("name", employee.Name))
			continue
		}

		shift := shiftsByID[assignment.ShiftID]
		shift.AssignedEmployeeID = &employee.ID
		shift.AssignedEmployee = employee

		r, ok := recipients[employee.Email]
		if !ok {
			r = &recipient{name: employee.Name}
			recipients[employee.Email] = r
			order = append(order, employee.Email)
		}
		r.shifts = append(r.shifts, shift)
	}

	sent, failed := 0, 0
	for _, email := range order {
		r := recipients[email]
		sortShifts(r.shifts)

		if err := notifier.SendScheduleNotification(ctx, email, r.name, r.shifts, label); err != nil {
			failed++
			logger.Error("Failed to send schedule notification",
				zap.String("email", email),
				zap.Int("shift_count", len(r.shifts)),
				zap.Error(err))
			continue
		}
		sent++
		logger.Debug("Sent schedule notification", zap.String("email", email), zap.Int("shift_count", len(r.shifts)))
	}

	return sent, failed
}
