package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

func rating(r int) *int { return &r }

func TestRecordPerformanceLog_Saves(t *testing.T) {
	recordedAt := time.Date(2025, 6, 30, 17, 0, 0, 0, time.UTC)
	freezeClock(t, recordedAt)
	store := &mockStore{employees: cooks()}

	entry, err := RecordPerformanceLog(context.Background(), store, zap.NewNop(), PerformanceLogInput{
		EmployeeID: "c1",
		LogDate:    time.Date(2025, 6, 14, 21, 30, 0, 0, time.UTC),
		Rating:     rating(4),
		Notes:      "  Covered the pass on a busy Saturday  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "2025-06-14", entry.LogDate.Format(model.DateLayout))
	assert.Equal(t, "Covered the pass on a busy Saturday", entry.Notes)
	assert.Equal(t, recordedAt, entry.RecordedAt)
	require.NotNil(t, entry.Employee)
	assert.Equal(t, "Alice Cook", entry.Employee.Name)
	assert.Len(t, store.logs, 1)
}

func TestRecordPerformanceLog_OnePerMonth(t *testing.T) {
	store := &mockStore{
		employees: cooks(),
		logs:      []model.PerformanceLog{{ID: "l1", EmployeeID: "c1", LogDate: date("2025-06-01"), Rating: rating(3)}},
	}

	_, err := RecordPerformanceLog(context.Background(), store, zap.NewNop(), PerformanceLogInput{
		EmployeeID: "c1",
		LogDate:    date("2025-06-30"),
		Rating:     rating(5),
	})
	require.ErrorIs(t, err, db.ErrDuplicatePerformanceLog)
	assert.Contains(t, err.Error(), "June 2025")
	assert.Len(t, store.logs, 1)

	// Next month and another employee in the same month are both fine
	_, err = RecordPerformanceLog(context.Background(), store, zap.NewNop(), PerformanceLogInput{EmployeeID: "c1", LogDate: date("2025-07-01")})
	require.NoError(t, err)
	_, err = RecordPerformanceLog(context.Background(), store, zap.NewNop(), PerformanceLogInput{EmployeeID: "c2", LogDate: date("2025-06-15")})
	require.NoError(t, err)
	assert.Len(t, store.logs, 3)
}

func TestRecordPerformanceLog_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input PerformanceLogInput
	}{
		{"rating too low", PerformanceLogInput{EmployeeID: "c1", LogDate: date("2025-06-01"), Rating: rating(0)}},
		{"rating too high", PerformanceLogInput{EmployeeID: "c1", LogDate: date("2025-06-01"), Rating: rating(6)}},
		{"no employee", PerformanceLogInput{LogDate: date("2025-06-01")}},
		{"no date", PerformanceLogInput{EmployeeID: "c1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{employees: cooks()}
			_, err := RecordPerformanceLog(context.Background(), store, zap.NewNop(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid performance log")
			assert.Empty(t, store.logs)
		})
	}
}

func TestRecordPerformanceLog_UnknownEmployee(t *testing.T) {
	store := &mockStore{employees: cooks()}

	_, err := RecordPerformanceLog(context.Background(), store, zap.NewNop(), PerformanceLogInput{EmployeeID: "ghost", LogDate: date("2025-06-01")})
	assert.ErrorIs(t, err, db.ErrEmployeeNotFound)
}

func TestListPerformanceLogs_NewestFirstWithEmployee(t *testing.T) {
	store := &mockStore{
		employees: cooks(),
		logs: []model.PerformanceLog{
			{ID: "l1", EmployeeID: "c1", LogDate: date("2025-04-10")},
			{ID: "l2", EmployeeID: "c2", LogDate: date("2025-06-02")},
			{ID: "l3", EmployeeID: "c1", LogDate: date("2025-05-20")},
			{ID: "l4", EmployeeID: "gone", LogDate: date("2025-03-01")},
		},
	}

	logs, err := ListPerformanceLogs(context.Background(), store, zap.NewNop(), "")
	require.NoError(t, err)
	require.Len(t, logs, 4)

	ids := []string{logs[0].ID, logs[1].ID, logs[2].ID, logs[3].ID}
	assert.Equal(t, []string{"l2", "l3", "l1", "l4"}, ids)
	require.NotNil(t, logs[0].Employee)
	assert.Equal(t, "Bob Cook", logs[0].Employee.Name)
	assert.Nil(t, logs[3].Employee)

	logs, err = ListPerformanceLogs(context.Background(), store, zap.NewNop(), "c1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "l3", logs[0].ID)
}

func TestListPerformanceLogs_StoreFailure(t *testing.T) {
	store := &mockStore{findErr: errStore}

	_, err := ListPerformanceLogs(context.Background(), store, zap.NewNop(), "")
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestGetEmployeeProfile(t *testing.T) {
	store := &mockStore{
		employees: cooks(),
		logs: []model.PerformanceLog{
			{ID: "l1", EmployeeID: "c2", LogDate: date("2025-04-10")},
			{ID: "l2", EmployeeID: "c2", LogDate: date("2025-05-10")},
			{ID: "l3", EmployeeID: "c1", LogDate: date("2025-05-10")},
		},
	}

	profile, err := GetEmployeeProfile(context.Background(), store, zap.NewNop(), "c2")
	require.NoError(t, err)
	assert.Equal(t, "Bob Cook", profile.Employee.Name)
	require.Len(t, profile.PerformanceLogs, 2)
	assert.Equal(t, "l2", profile.PerformanceLogs[0].ID)

	_, err = GetEmployeeProfile(context.Background(), store, zap.NewNop(), "ghost")
	assert.ErrorIs(t, err, db.ErrEmployeeNotFound)
}
