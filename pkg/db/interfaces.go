package db

import (
	"context"
	"time"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// AssignmentFilter restricts shift queries by assignment status
type AssignmentFilter int

const (
	AnyAssignment AssignmentFilter = iota
	Unassigned
	Assigned
)

func (f AssignmentFilter) String() string {
	switch f {
	case Unassigned:
		return "unassigned"
	case Assigned:
		return "assigned"
	}
	return "any"
}

// ShiftStore defines the interface for shift database operations.
// Ranges are inclusive calendar days compared on the shift date only.
type ShiftStore interface {
	// FindShiftsInRange returns shifts dated in [start, end] ordered by date then start time
	FindShiftsInRange(ctx context.Context, start, end time.Time, filter AssignmentFilter) ([]model.Shift, error)

	DeleteShiftsInRange(ctx context.Context, start, end time.Time) (int, error)

	InsertShifts(ctx context.Context, shifts []model.Shift) ([]model.Shift, error)

	// ReplaceShiftsInRange deletes every shift in [start, end] and inserts the given shifts
	// in a single transaction. Either both happen or neither does.
	ReplaceShiftsInRange(ctx context.Context, start, end time.Time, shifts []model.Shift) (int, []model.Shift, error)

	// AssignShifts applies each assignment only if the shift is still unassigned.
	// Returns the subset that was applied. On error, the assignments applied before
	// the failure are returned alongside it and are not rolled back.
	AssignShifts(ctx context.Context, assignments []model.Assignment) ([]model.Assignment, error)
}

// EmployeeStore defines the interface for roster database operations.
// Names and non-empty emails are unique; violations return ErrDuplicateEmployee.
type EmployeeStore interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)

	// GetEmployee returns ErrEmployeeNotFound for an unknown id
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)

	InsertEmployee(ctx context.Context, employee *model.Employee) error

	// UpdateEmployee overwrites every field of the employee with the given id
	UpdateEmployee(ctx context.Context, employee *model.Employee) error

	// DeleteEmployee removes the employee and their performance logs and releases
	// every shift assigned to them, in one transaction. Returns the number of
	// shifts released.
	DeleteEmployee(ctx context.Context, id string) (int, error)
}

// PerformanceLogStore defines the interface for performance log operations
type PerformanceLogStore interface {
	// InsertPerformanceLog returns ErrDuplicatePerformanceLog if the employee
	// already has a log in the same calendar month
	InsertPerformanceLog(ctx context.Context, log *model.PerformanceLog) error

	// ListPerformanceLogs returns logs newest first. An empty employeeID lists every employee.
	ListPerformanceLogs(ctx context.Context, employeeID string) ([]model.PerformanceLog, error)
}

// Database defines the interface for all database operations.
// Both the gorm-backed db.DB and postgres.DB implement this interface.
type Database interface {
	ShiftStore
	EmployeeStore
	PerformanceLogStore
	RunMigrations(ctx context.Context) error
	Close() error
}
