package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

const uniqueViolation = "23505"

// GetEmployees retrieves the full roster ordered by name
func (d *DB) GetEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, position, hourly_rate::text
		FROM employee
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetEmployee retrieves one employee by id
func (d *DB) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, name, email, position, hourly_rate::text
		FROM employee
		WHERE id = $1
	`, id)

	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrEmployeeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertEmployee inserts a new employee record, assigning an id if missing
func (d *DB) InsertEmployee(ctx context.Context, employee *model.Employee) error {
	if err := db.PrepareEmployee(employee); err != nil {
		return err
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO employee (id, name, email, position, hourly_rate)
		VALUES ($1, $2, $3, $4, $5::text::numeric)
	`, employee.ID, employee.Name, employee.Email, string(employee.Position), rateText(employee))
	if err != nil {
		return employeeWriteError("insert", employee, err)
	}
	return nil
}

// UpdateEmployee overwrites the stored employee with the same id
func (d *DB) UpdateEmployee(ctx context.Context, employee *model.Employee) error {
	if employee.ID == "" {
		return fmt.Errorf("%w: no id given", db.ErrEmployeeNotFound)
	}
	if err := db.PrepareEmployee(employee); err != nil {
		return err
	}

	tag, err := d.pool.Exec(ctx, `
		UPDATE employee
		SET name = $2, email = $3, position = $4, hourly_rate = $5::text::numeric
		WHERE id = $1
	`, employee.ID, employee.Name, employee.Email, string(employee.Position), rateText(employee))
	if err != nil {
		return employeeWriteError("update", employee, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", db.ErrEmployeeNotFound, employee.ID)
	}
	return nil
}

// DeleteEmployee releases the employee's shifts and removes them with their performance logs
func (d *DB) DeleteEmployee(ctx context.Context, id string) (int, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	released, err := tx.Exec(ctx, `UPDATE shift SET assigned_employee_id = NULL WHERE assigned_employee_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to release shifts of employee %s: %w", id, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM performance_log WHERE employee_id = $1`, id); err != nil {
		return 0, fmt.Errorf("failed to delete performance logs of employee %s: %w", id, err)
	}

	deleted, err := tx.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if deleted.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: %s", db.ErrEmployeeNotFound, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(released.RowsAffected()), nil
}

func scanEmployee(row pgx.Row) (model.Employee, error) {
	var e model.Employee
	var position string
	var rate *string
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &position, &rate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan employee: %w", err)
	}

	var err error
	e.Position, err = model.ParsePosition(position)
	if err != nil {
		return e, fmt.Errorf("employee %s: %w", e.ID, err)
	}

	if rate != nil {
		r, err := decimal.NewFromString(*rate)
		if err != nil {
			return e, fmt.Errorf("employee %s has invalid hourly rate: %w", e.ID, err)
		}
		e.HourlyRate = &r
	}
	return e, nil
}

func rateText(employee *model.Employee) *string {
	if employee.HourlyRate == nil {
		return nil
	}
	s := employee.HourlyRate.String()
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func employeeWriteError(op string, employee *model.Employee, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q <%s>", db.ErrDuplicateEmployee, employee.Name, employee.Email)
	}
	return fmt.Errorf("failed to %s employee: %w", op, err)
}
