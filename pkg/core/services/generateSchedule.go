package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/core/staffing"
)

// Forecaster predicts daily demand starting today
type Forecaster interface {
	GenerateForecast(ctx context.Context, daysAhead int) ([]model.DemandRecord, error)
}

// GenerateScheduleStore defines the database operations needed for generating shifts
type GenerateScheduleStore interface {
	ReplaceShiftsInRange(ctx context.Context, start, end time.Time, shifts []model.Shift) (int, []model.Shift, error)
}

// GenerateScheduleResult contains the outcome of a generation run
type GenerateScheduleResult struct {
	PeriodLabel   string
	DaysGenerated int
	ClosedDays    []string
	DeletedCount  int
	CreatedCount  int
	Shifts        []model.Shift
}

// GenerateSchedule replaces every shift in [start, end] with unassigned shifts sized
// from the demand forecast. Existing assignments in the range are lost.
// If the forecast has no records in the range nothing is deleted or created.
func GenerateSchedule(
	ctx context.Context,
	store GenerateScheduleStore,
	forecaster Forecaster,
	cfg *config.Config,
	logger *zap.Logger,
	start, end time.Time,
) (*GenerateScheduleResult, error) {
	start, end = model.DateOnly(start), model.DateOnly(end)
	label := model.PeriodLabel(start)
	logger.Debug("Starting generateSchedule",
		zap.String("period", label),
		zap.String("start", start.Format(model.DateLayout)),
		zap.String("end", end.Format(model.DateLayout)))

	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	result := &GenerateScheduleResult{PeriodLabel: label, ClosedDays: []string{}, Shifts: []model.Shift{}}

	// Step 1: Fetch the forecast
	daysAhead := ForecastHorizon(now(), end)
	logger.Debug("Fetching forecast", zap.Int("days_ahead", daysAhead))

	records, err := forecaster.GenerateForecast(ctx, daysAhead)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrForecastUnavailable, label, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %s: forecast returned no records", ErrForecastUnavailable, label)
	}

	// Step 2: Keep only the days inside the range
	inRange := make([]model.DemandRecord, 0, len(records))
	for _, record := range records {
		date := model.DateOnly(record.Date)
		if date.Before(start) || date.After(end) {
			continue
		}
		inRange = append(inRange, record)
	}

	if len(inRange) == 0 {
		logger.Warn("No forecast data in range, leaving shifts untouched",
			zap.String("period", label),
			zap.Int("forecast_records", len(records)))
		return result, nil
	}

	// Step 3: Drop closure days
	closed, err := closedDates(cfg.Closures, start, end, logger)
	if err != nil {
		return nil, err
	}

	// Step 4: Build shifts
	shifts := make([]model.Shift, 0)
	for _, record := range inRange {
		date := model.DateOnly(record.Date)
		key := date.Format(model.DateLayout)
		if reason, ok := closed[key]; ok {
			logger.Debug("Skipping closed day", zap.String("date", key), zap.String("reason", reason))
			result.ClosedDays = append(result.ClosedDays, key)
			continue
		}

		shifts = append(shifts, shiftsForDay(date, record.PredictedDemand)...)
		result.DaysGenerated++
	}

	logger.Debug("Built shifts",
		zap.Int("days", result.DaysGenerated),
		zap.Int("closed_days", len(result.ClosedDays)),
		zap.Int("shift_count", len(shifts)))

	// Step 5: Replace the range in one transaction
	deleted, inserted, err := store.ReplaceShiftsInRange(ctx, start, end, shifts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to replace shifts for %s: %w", ErrPersistence, label, err)
	}

	result.DeletedCount = deleted
	result.CreatedCount = len(inserted)
	result.Shifts = inserted

	logger.Info("Schedule generated",
		zap.String("period", label),
		zap.Int("deleted", deleted),
		zap.Int("created", result.CreatedCount))

	return result, nil
}

// shiftsForDay emits one unassigned shift per required head, DAY before EVE
func shiftsForDay(date time.Time, demand float64) []model.Shift {
	shifts := make([]model.Shift, 0)
	for _, window := range model.Windows() {
		startTime, endTime := window.Times()
		for _, position := range model.Positions {
			for range staffing.RequiredHeadcount(window, position, demand) {
				shifts = append(shifts, model.Shift{
					ID:               uuid.NewString(),
					Date:             date,
					StartTime:        startTime,
					EndTime:          endTime,
					RequiredPosition: position,
				})
			}
		}
	}
	return shifts
}
