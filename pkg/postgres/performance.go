package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

// InsertPerformanceLog stores a new log, assigning an id and recorded time if missing
func (d *DB) InsertPerformanceLog(ctx context.Context, log *model.PerformanceLog) error {
	if err := db.PreparePerformanceLog(log); err != nil {
		return err
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO performance_log (id, employee_id, log_month, log_date, rating, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.ID, log.EmployeeID, log.LogMonth(), log.LogDate, log.Rating, log.Notes, log.RecordedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: employee %s in %s", db.ErrDuplicatePerformanceLog, log.EmployeeID, log.LogMonth())
		}
		return fmt.Errorf("failed to insert performance log: %w", err)
	}
	return nil
}

// ListPerformanceLogs returns logs ordered by log date, newest first
func (d *DB) ListPerformanceLogs(ctx context.Context, employeeID string) ([]model.PerformanceLog, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, employee_id, log_date, rating, notes, recorded_at
		FROM performance_log
		WHERE $1::text = '' OR employee_id = $1
		ORDER BY log_date DESC, recorded_at DESC, id
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance logs: %w", err)
	}
	defer rows.Close()

	logs := []model.PerformanceLog{}
	for rows.Next() {
		var l model.PerformanceLog
		var rating *int32
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.LogDate, &rating, &l.Notes, &l.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan performance log: %w", err)
		}
		if rating != nil {
			r := int(*rating)
			l.Rating = &r
		}
		l.LogDate = model.DateOnly(l.LogDate)
		l.RecordedAt = l.RecordedAt.UTC()
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating performance logs: %w", err)
	}
	return logs, nil
}
