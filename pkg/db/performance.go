package db

import (
	"context"
	"fmt"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// InsertPerformanceLog stores a new log, assigning an id and recorded time if missing
func (db *DB) InsertPerformanceLog(ctx context.Context, log *model.PerformanceLog) error {
	if err := PreparePerformanceLog(log); err != nil {
		return err
	}

	record := performanceLogToRecord(log)
	if err := db.gorm.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: employee %s in %s", ErrDuplicatePerformanceLog, log.EmployeeID, log.LogMonth())
		}
		return fmt.Errorf("failed to insert performance log: %w", err)
	}
	return nil
}

// ListPerformanceLogs returns logs ordered by log date, newest first
func (db *DB) ListPerformanceLogs(ctx context.Context, employeeID string) ([]model.PerformanceLog, error) {
	query := db.gorm.WithContext(ctx)
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}

	var records []PerformanceLogRecord
	if err := query.Order("log_date DESC, recorded_at DESC, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query performance logs: %w", err)
	}

	logs := make([]model.PerformanceLog, 0, len(records))
	for _, r := range records {
		l, err := performanceLogFromRecord(r)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}
