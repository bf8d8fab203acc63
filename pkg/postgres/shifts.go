package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

var shiftColumns = []string{"id", "shift_date", "start_time", "end_time", "required_position", "assigned_employee_id"}

func filterClause(filter db.AssignmentFilter) string {
	switch filter {
	case db.Unassigned:
		return " AND assigned_employee_id IS NULL"
	case db.Assigned:
		return " AND assigned_employee_id IS NOT NULL"
	}
	return ""
}

// FindShiftsInRange retrieves shifts dated in [start, end]
func (d *DB) FindShiftsInRange(ctx context.Context, start, end time.Time, filter db.AssignmentFilter) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, shift_date, start_time, end_time, required_position, assigned_employee_id
		FROM shift
		WHERE shift_date BETWEEN $1 AND $2`+filterClause(filter)+`
		ORDER BY shift_date, start_time, id
	`, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s shifts: %w", filter, err)
	}
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		var s model.Shift
		var position string
		if err := rows.Scan(&s.ID, &s.Date, &s.StartTime, &s.EndTime, &position, &s.AssignedEmployeeID); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}

		s.RequiredPosition, err = model.ParsePosition(position)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", s.ID, err)
		}
		s.Date = model.DateOnly(s.Date)
		shifts = append(shifts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// DeleteShiftsInRange removes every shift dated in [start, end]
func (d *DB) DeleteShiftsInRange(ctx context.Context, start, end time.Time) (int, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM shift WHERE shift_date BETWEEN $1 AND $2`, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		return 0, fmt.Errorf("failed to delete shifts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertShifts bulk inserts shift records, assigning ids where missing
func (d *DB) InsertShifts(ctx context.Context, shifts []model.Shift) ([]model.Shift, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted, err := copyShifts(ctx, tx, shifts)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// ReplaceShiftsInRange deletes and inserts within one transaction
func (d *DB) ReplaceShiftsInRange(ctx context.Context, start, end time.Time, shifts []model.Shift) (int, []model.Shift, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM shift WHERE shift_date BETWEEN $1 AND $2`, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to delete shifts: %w", err)
	}

	inserted, err := copyShifts(ctx, tx, shifts)
	if err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return int(tag.RowsAffected()), inserted, nil
}

// AssignShifts sets the assigned employee on shifts that are still unassigned.
// Each update commits on its own so earlier successes survive a later failure.
func (d *DB) AssignShifts(ctx context.Context, assignments []model.Assignment) ([]model.Assignment, error) {
	applied := make([]model.Assignment, 0, len(assignments))

	for _, a := range assignments {
		tag, err := d.pool.Exec(ctx, `
			UPDATE shift SET assigned_employee_id = $2
			WHERE id = $1 AND assigned_employee_id IS NULL
		`, a.ShiftID, a.EmployeeID)
		if err != nil {
			return applied, fmt.Errorf("failed to assign shift %s: %w", a.ShiftID, err)
		}

		if tag.RowsAffected() == 1 {
			applied = append(applied, a)
		}
	}

	return applied, nil
}

func copyShifts(ctx context.Context, tx pgx.Tx, shifts []model.Shift) ([]model.Shift, error) {
	if len(shifts) == 0 {
		return []model.Shift{}, nil
	}

	prepared, err := db.PrepareShifts(shifts)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(prepared))
	for i, s := range prepared {
		rows[i] = []any{s.ID, s.Date, s.StartTime, s.EndTime, string(s.RequiredPosition), s.AssignedEmployeeID}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"shift"}, shiftColumns, pgx.CopyFromRows(rows)); err != nil {
		return nil, fmt.Errorf("failed to insert shifts: %w", err)
	}
	return prepared, nil
}
