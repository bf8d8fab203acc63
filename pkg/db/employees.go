package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// GetEmployees retrieves the full roster ordered by name
func (db *DB) GetEmployees(ctx context.Context) ([]model.Employee, error) {
	var records []EmployeeRecord
	if err := db.gorm.WithContext(ctx).Order("name, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}

	employees := make([]model.Employee, 0, len(records))
	for _, r := range records {
		e, err := employeeFromRecord(r)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// GetEmployee retrieves one employee by id
func (db *DB) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	var record EmployeeRecord
	err := db.gorm.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query employee %s: %w", id, err)
	}

	employee, err := employeeFromRecord(record)
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// InsertEmployee inserts a new employee record, assigning an id if missing
func (db *DB) InsertEmployee(ctx context.Context, employee *model.Employee) error {
	if err := PrepareEmployee(employee); err != nil {
		return err
	}

	record := employeeToRecord(employee)
	if err := db.gorm.WithContext(ctx).Create(&record).Error; err != nil {
		return employeeWriteError("insert", employee, err)
	}
	return nil
}

// UpdateEmployee overwrites the stored employee with the same id
func (db *DB) UpdateEmployee(ctx context.Context, employee *model.Employee) error {
	if employee.ID == "" {
		return fmt.Errorf("%w: no id given", ErrEmployeeNotFound)
	}
	if err := PrepareEmployee(employee); err != nil {
		return err
	}

	record := employeeToRecord(employee)
	result := db.gorm.WithContext(ctx).
		Model(&EmployeeRecord{}).
		Where("id = ?", employee.ID).
		Select("name", "email", "position", "hourly_rate").
		Updates(&record)
	if result.Error != nil {
		return employeeWriteError("update", employee, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, employee.ID)
	}
	return nil
}

// DeleteEmployee removes the employee, their performance logs and their shift assignments
func (db *DB) DeleteEmployee(ctx context.Context, id string) (int, error) {
	var released int

	err := db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shifts := tx.Model(&ShiftRecord{}).
			Where("assigned_employee_id = ?", id).
			Update("assigned_employee_id", nil)
		if shifts.Error != nil {
			return fmt.Errorf("failed to release shifts of employee %s: %w", id, shifts.Error)
		}
		released = int(shifts.RowsAffected)

		if err := tx.Where("employee_id = ?", id).Delete(&PerformanceLogRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete performance logs of employee %s: %w", id, err)
		}

		deleted := tx.Where("id = ?", id).Delete(&EmployeeRecord{})
		if deleted.Error != nil {
			return fmt.Errorf("failed to delete employee %s: %w", id, deleted.Error)
		}
		if deleted.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

func employeeWriteError(op string, employee *model.Employee, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q <%s>", ErrDuplicateEmployee, employee.Name, employee.Email)
	}
	return fmt.Errorf("failed to %s employee: %w", op, err)
}

// isUniqueViolation matches translated and raw sqlite unique constraint errors
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
