package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/clients/sheetsclient"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// SchedulePublisher writes a schedule to a spreadsheet tab
type SchedulePublisher interface {
	PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error
}

// PublishSchedule loads the period's shifts and writes them to the configured
// spreadsheet in a tab named after the period
func PublishSchedule(
	ctx context.Context,
	store PeriodStore,
	publisher SchedulePublisher,
	cfg *config.Config,
	logger *zap.Logger,
	start, end time.Time,
) (*sheetsclient.PublishedSchedule, error) {
	if cfg.ScheduleSheetID == "" {
		return nil, fmt.Errorf("scheduleSheetID is not configured")
	}

	// Step 1: Load the period
	shifts, err := GetShiftsForPeriod(ctx, store, logger, start, end)
	if err != nil {
		return nil, err
	}

	// Step 2: Build rows
	schedule := BuildPublishedSchedule(model.PeriodLabel(start), shifts)
	logger.Debug("Built published schedule", zap.String("title", schedule.Title), zap.Int("rows", len(schedule.Rows)))

	// Step 3: Write the sheet
	if err := publisher.PublishSchedule(ctx, cfg.ScheduleSheetID, schedule); err != nil {
		return nil, fmt.Errorf("failed to publish schedule for %s: %w", schedule.Title, err)
	}

	logger.Info("Schedule published",
		zap.String("period", schedule.Title),
		zap.Int("rows", len(schedule.Rows)))

	return schedule, nil
}

// BuildPublishedSchedule converts sorted shifts into sheet rows
func BuildPublishedSchedule(title string, shifts []model.Shift) *sheetsclient.PublishedSchedule {
	rows := make([]sheetsclient.PublishedScheduleRow, 0, len(shifts))
	for _, shift := range shifts {
		row := sheetsclient.PublishedScheduleRow{
			Date:     shift.Date.Format("Mon Jan 02 2006"),
			Window:   string(model.WindowFor(shift.StartTime)),
			Start:    shift.StartTime,
			End:      shift.EndTime,
			Position: string(shift.RequiredPosition),
		}
		if shift.AssignedEmployee != nil {
			row.Employee = shift.AssignedEmployee.Name
		}
		rows = append(rows, row)
	}

	return &sheetsclient.PublishedSchedule{Title: title, Rows: rows}
}
