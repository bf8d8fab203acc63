package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

var validate = validator.New()

// EmployeeStore defines the database operations needed for managing the roster
type EmployeeStore interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	InsertEmployee(ctx context.Context, employee *model.Employee) error
	UpdateEmployee(ctx context.Context, employee *model.Employee) error
	DeleteEmployee(ctx context.Context, id string) (int, error)
}

// EmployeeUpdate holds the fields to change. Nil fields keep their current value.
type EmployeeUpdate struct {
	Name       *string
	Email      *string
	Position   *model.Position
	HourlyRate *decimal.Decimal

	// ClearRate removes the hourly rate and wins over HourlyRate
	ClearRate bool
}

type employeeRules struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"omitempty,email"`
	Position string `validate:"required"`
}

// AddEmployee validates a new employee, rejects a name or email already on the
// roster and stores it. The id is set on employee.
func AddEmployee(ctx context.Context, store EmployeeStore, logger *zap.Logger, employee *model.Employee) error {
	employee.Normalize()
	logger.Debug("Adding employee", zap.String("name", employee.Name), zap.String("position", string(employee.Position)))

	if err := checkEmployee(employee); err != nil {
		return err
	}

	roster, err := store.GetEmployees(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to load roster: %w", ErrPersistence, err)
	}
	if err := findDuplicate(roster, employee); err != nil {
		return err
	}

	if err := store.InsertEmployee(ctx, employee); err != nil {
		return storeError("add employee "+employee.Name, err)
	}

	logger.Info("Employee added", zap.String("id", employee.ID), zap.String("name", employee.Name))
	return nil
}

// UpdateEmployee applies update to the employee with id and returns the stored result
func UpdateEmployee(ctx context.Context, store EmployeeStore, logger *zap.Logger, id string, update EmployeeUpdate) (*model.Employee, error) {
	logger.Debug("Updating employee", zap.String("id", id))

	employee, err := store.GetEmployee(ctx, id)
	if err != nil {
		return nil, storeError("load employee "+id, err)
	}

	if update.Name != nil {
		employee.Name = *update.Name
	}
	if update.Email != nil {
		employee.Email = *update.Email
	}
	if update.Position != nil {
		employee.Position = *update.Position
	}
	if update.HourlyRate != nil {
		rate := *update.HourlyRate
		employee.HourlyRate = &rate
	}
	if update.ClearRate {
		employee.HourlyRate = nil
	}
	employee.Normalize()

	if err := checkEmployee(employee); err != nil {
		return nil, err
	}

	roster, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load roster: %w", ErrPersistence, err)
	}
	if err := findDuplicate(roster, employee); err != nil {
		return nil, err
	}

	if err := store.UpdateEmployee(ctx, employee); err != nil {
		return nil, storeError("update employee "+id, err)
	}

	logger.Info("Employee updated", zap.String("id", id), zap.String("name", employee.Name))
	return employee, nil
}

// DeleteEmployee removes the employee with id. Shifts assigned to them become
// unassigned and the number released is returned.
func DeleteEmployee(ctx context.Context, store EmployeeStore, logger *zap.Logger, id string) (int, error) {
	released, err := store.DeleteEmployee(ctx, id)
	if err != nil {
		return 0, storeError("delete employee "+id, err)
	}

	if released > 0 {
		logger.Warn("Deleted employee had assigned shifts; they are unassigned again",
			zap.String("id", id),
			zap.Int("released", released))
	}
	logger.Info("Employee deleted", zap.String("id", id))
	return released, nil
}

func checkEmployee(employee *model.Employee) error {
	rules := employeeRules{Name: employee.Name, Email: employee.Email, Position: string(employee.Position)}
	if err := validate.Struct(rules); err != nil {
		return fmt.Errorf("invalid employee %q: %w", employee.Name, err)
	}
	if !employee.Position.IsValid() {
		return fmt.Errorf("invalid employee %q: unknown position %q", employee.Name, employee.Position)
	}
	if employee.HourlyRate != nil && employee.HourlyRate.IsNegative() {
		return fmt.Errorf("invalid employee %q: hourly rate cannot be negative", employee.Name)
	}
	return nil
}

// findDuplicate reports another roster entry sharing the employee's email or name.
// Email is checked first.
func findDuplicate(roster []model.Employee, employee *model.Employee) error {
	for _, other := range roster {
		if other.ID == employee.ID {
			continue
		}
		if employee.Email != "" && strings.EqualFold(other.Email, employee.Email) {
			return fmt.Errorf("%w: email %q already belongs to %s", db.ErrDuplicateEmployee, employee.Email, other.Name)
		}
	}
	for _, other := range roster {
		if other.ID != employee.ID && other.Name == employee.Name {
			return fmt.Errorf("%w: name %q is already on the roster", db.ErrDuplicateEmployee, employee.Name)
		}
	}
	return nil
}

// storeError keeps the store's domain sentinels and marks anything else as a persistence failure
func storeError(action string, err error) error {
	if errors.Is(err, db.ErrEmployeeNotFound) ||
		errors.Is(err, db.ErrDuplicateEmployee) ||
		errors.Is(err, db.ErrDuplicatePerformanceLog) {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return fmt.Errorf("%w: failed to %s: %w", ErrPersistence, action, err)
}
