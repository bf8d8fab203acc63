package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

const insertBatchSize = 200

func dateRange(start, end time.Time) (string, string) {
	return model.DateOnly(start).Format(model.DateLayout), model.DateOnly(end).Format(model.DateLayout)
}

// FindShiftsInRange retrieves shifts dated in [start, end]
func (db *DB) FindShiftsInRange(ctx context.Context, start, end time.Time, filter AssignmentFilter) ([]model.Shift, error) {
	from, to := dateRange(start, end)

	query := db.gorm.WithContext(ctx).
		Where("shift_date BETWEEN ? AND ?", from, to)
	switch filter {
	case Unassigned:
		query = query.Where("assigned_employee_id IS NULL")
	case Assigned:
		query = query.Where("assigned_employee_id IS NOT NULL")
	}

	var records []ShiftRecord
	if err := query.Order("shift_date, start_time, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s shifts: %w", filter, err)
	}

	shifts := make([]model.Shift, 0, len(records))
	for _, r := range records {
		s, err := shiftFromRecord(r)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, nil
}

// DeleteShiftsInRange removes every shift dated in [start, end]
func (db *DB) DeleteShiftsInRange(ctx context.Context, start, end time.Time) (int, error) {
	return deleteShiftsInRange(db.gorm.WithContext(ctx), start, end)
}

// InsertShifts inserts shift records, assigning ids where missing
func (db *DB) InsertShifts(ctx context.Context, shifts []model.Shift) ([]model.Shift, error) {
	return insertShifts(db.gorm.WithContext(ctx), shifts)
}

// ReplaceShiftsInRange deletes and inserts within one transaction
func (db *DB) ReplaceShiftsInRange(ctx context.Context, start, end time.Time, shifts []model.Shift) (int, []model.Shift, error) {
	var deleted int
	var inserted []model.Shift

	err := db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = deleteShiftsInRange(tx, start, end)
		if err != nil {
			return err
		}
		inserted, err = insertShifts(tx, shifts)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	return deleted, inserted, nil
}

// AssignShifts sets the assigned employee on shifts that are still unassigned
func (db *DB) AssignShifts(ctx context.Context, assignments []model.Assignment) ([]model.Assignment, error) {
	applied := make([]model.Assignment, 0, len(assignments))

	for _, a := range assignments {
		result := db.gorm.WithContext(ctx).
			Model(&ShiftRecord{}).
			Where("id = ? AND assigned_employee_id IS NULL", a.ShiftID).
			Update("assigned_employee_id", a.EmployeeID)
		if result.Error != nil {
			return applied, fmt.Errorf("failed to assign shift %s: %w", a.ShiftID, result.Error)
		}

		if result.RowsAffected == 1 {
			applied = append(applied, a)
		}
	}

	return applied, nil
}

func deleteShiftsInRange(tx *gorm.DB, start, end time.Time) (int, error) {
	from, to := dateRange(start, end)

	result := tx.Where("shift_date BETWEEN ? AND ?", from, to).Delete(&ShiftRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete shifts: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

func insertShifts(tx *gorm.DB, shifts []model.Shift) ([]model.Shift, error) {
	if len(shifts) == 0 {
		return []model.Shift{}, nil
	}

	prepared, err := PrepareShifts(shifts)
	if err != nil {
		return nil, err
	}

	records := make([]ShiftRecord, len(prepared))
	for i, s := range prepared {
		records[i] = shiftToRecord(s)
	}

	if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
		return nil, fmt.Errorf("failed to insert shifts: %w", err)
	}
	return prepared, nil
}
