package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleValues(t *testing.T) {
	schedule := &PublishedSchedule{
		Title: "June 2025",
		Rows: []PublishedScheduleRow{
			{Date: "Sat Jun 14 2025", Window: "DAY", Start: "10:00", End: "18:00", Position: "Cook", Employee: "Alice"},
			{Date: "Sat Jun 14 2025", Window: "EVE", Start: "16:00", End: "00:00", Position: "Server"},
		},
	}

	values := scheduleValues(schedule)
	require.Len(t, values, 3)

	assert.Equal(t, []interface{}{"Date", "Window", "Start", "End", "Position", "Employee"}, values[0])
	assert.Equal(t, []interface{}{"Sat Jun 14 2025", "DAY", "10:00", "18:00", "Cook", "Alice"}, values[1])
	assert.Equal(t, "", values[2][5], "unassigned shifts leave the employee blank")
}

func TestScheduleValues_Empty(t *testing.T) {
	values := scheduleValues(&PublishedSchedule{Title: "July 2025"})
	assert.Len(t, values, 1)
}
