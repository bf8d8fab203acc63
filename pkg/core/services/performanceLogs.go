package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

// PerformanceStore defines the database operations needed for performance logs
type PerformanceStore interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	InsertPerformanceLog(ctx context.Context, log *model.PerformanceLog) error
	ListPerformanceLogs(ctx context.Context, employeeID string) ([]model.PerformanceLog, error)
}

// PerformanceLogInput is a manager's entry for one employee and month
type PerformanceLogInput struct {
	EmployeeID string    `validate:"required"`
	LogDate    time.Time `validate:"required"`
	Rating     *int      `validate:"omitempty,min=1,max=5"`
	Notes      string    `validate:"max=2000"`
}

// EmployeeProfile is an employee with their performance history, newest first
type EmployeeProfile struct {
	Employee        model.Employee
	PerformanceLogs []model.PerformanceLog
}

// RecordPerformanceLog stores a log for the employee, refusing a second log in
// the same calendar month as input.LogDate
func RecordPerformanceLog(ctx context.Context, store PerformanceStore, logger *zap.Logger, input PerformanceLogInput) (*model.PerformanceLog, error) {
	input.Notes = strings.TrimSpace(input.Notes)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid performance log: %w", err)
	}

	logDate := model.DateOnly(input.LogDate)
	month := model.PeriodLabel(logDate)
	logger.Debug("Recording performance log",
		zap.String("employee_id", input.EmployeeID),
		zap.String("month", month))

	employee, err := store.GetEmployee(ctx, input.EmployeeID)
	if err != nil {
		return nil, storeError("load employee "+input.EmployeeID, err)
	}

	// Step 1: Refuse a second log for the month
	existing, err := store.ListPerformanceLogs(ctx, employee.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load performance logs: %w", ErrPersistence, err)
	}
	for _, l := range existing {
		if l.LogDate.Year() == logDate.Year() && l.LogDate.Month() == logDate.Month() {
			logger.Warn("Duplicate performance log",
				zap.String("employee", employee.Name),
				zap.String("month", month),
				zap.String("existing_id", l.ID))
			return nil, fmt.Errorf("%w: %s already has a log for %s", db.ErrDuplicatePerformanceLog, employee.Name, month)
		}
	}

	// Step 2: Save
	entry := &model.PerformanceLog{
		EmployeeID: employee.ID,
		LogDate:    logDate,
		Rating:     input.Rating,
		Notes:      input.Notes,
		RecordedAt: now().UTC(),
	}
	if err := store.InsertPerformanceLog(ctx, entry); err != nil {
		return nil, storeError("save performance log for "+employee.Name, err)
	}

	entry.Employee = employee
	logger.Info("Performance log recorded",
		zap.String("id", entry.ID),
		zap.String("employee", employee.Name),
		zap.String("month", month))
	return entry, nil
}

// ListPerformanceLogs returns logs newest first with the employee populated.
// An empty employeeID lists logs for the whole roster.
func ListPerformanceLogs(ctx context.Context, store PerformanceStore, logger *zap.Logger, employeeID string) ([]model.PerformanceLog, error) {
	logs, err := store.ListPerformanceLogs(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load performance logs: %w", ErrPersistence, err)
	}

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load roster: %w", ErrPersistence, err)
	}
	byID := employeesByID(employees)

	for i := range logs {
		logs[i].Employee = byID[logs[i].EmployeeID]
	}
	sortLogsNewestFirst(logs)

	logger.Debug("Performance logs fetched", zap.Int("count", len(logs)))
	return logs, nil
}

// GetEmployeeProfile returns the employee with id and their performance history
func GetEmployeeProfile(ctx context.Context, store PerformanceStore, logger *zap.Logger, id string) (*EmployeeProfile, error) {
	employee, err := store.GetEmployee(ctx, id)
	if err != nil {
		return nil, storeError("load employee "+id, err)
	}

	logs, err := store.ListPerformanceLogs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load performance logs: %w", ErrPersistence, err)
	}
	for i := range logs {
		logs[i].Employee = employee
	}
	sortLogsNewestFirst(logs)

	logger.Debug("Employee profile fetched", zap.String("id", id), zap.Int("logs", len(logs)))
	return &EmployeeProfile{Employee: *employee, PerformanceLogs: logs}, nil
}

func sortLogsNewestFirst(logs []model.PerformanceLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].LogDate.Equal(logs[j].LogDate) {
			return logs[i].LogDate.After(logs[j].LogDate)
		}
		return logs[i].RecordedAt.After(logs[j].RecordedAt)
	})
}
