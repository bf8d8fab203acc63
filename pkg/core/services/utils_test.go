package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

func TestForecastHorizon(t *testing.T) {
	tests := []struct {
		name     string
		today    time.Time
		end      time.Time
		expected int
	}{
		{"month ahead", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), date("2025-06-30"), 37},
		{"end is today", time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC), date("2025-06-01"), 8},
		{"end in the past", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), date("2025-06-01"), 8},
		{"following month", time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), date("2025-06-30"), 49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForecastHorizon(tt.today, tt.end))
		})
	}
}

func TestClosedDates(t *testing.T) {
	closures := []config.Closure{
		{RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", Reason: "Christmas"},
		{RRule: "FREQ=WEEKLY;BYDAY=MO", Reason: "Mondays"},
	}

	closed, err := closedDates(closures, date("2025-12-20"), date("2025-12-31"), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"2025-12-22": "Mondays",
		"2025-12-25": "Christmas",
		"2025-12-29": "Mondays",
	}, closed)
}

func TestClosedDates_None(t *testing.T) {
	closed, err := closedDates(nil, date("2025-06-01"), date("2025-06-30"), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, closed)
}

func TestClosedDates_InvalidRule(t *testing.T) {
	_, err := closedDates([]config.Closure{{RRule: "FREQ=SOMETIMES"}}, date("2025-06-01"), date("2025-06-30"), zap.NewNop())
	assert.Error(t, err)
}

func TestSortShifts(t *testing.T) {
	shifts := []model.Shift{
		shiftOn("b", "2025-06-02", model.WindowEve, model.PositionCook),
		shiftOn("c", "2025-06-02", model.WindowDay, model.PositionServer),
		shiftOn("a", "2025-06-01", model.WindowEve, model.PositionCook),
		shiftOn("d", "2025-06-02", model.WindowDay, model.PositionCook),
	}

	sortShifts(shifts)

	ids := make([]string, len(shifts))
	for i, s := range shifts {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"a", "d", "c", "b"}, ids)
}
