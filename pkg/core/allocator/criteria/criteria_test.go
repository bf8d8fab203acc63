package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staff-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

func slot(t *testing.T, id, date string, window model.Window, position model.Position) *allocator.Slot {
	t.Helper()
	d, err := model.ParseDate(date)
	require.NoError(t, err)

	start, end := window.Times()
	s, err := allocator.BuildSlot(&model.Shift{
		ID:               id,
		Date:             d,
		StartTime:        start,
		EndTime:          end,
		RequiredPosition: position,
	}, 8)
	require.NoError(t, err)
	return s
}

var cook = &model.Employee{ID: "c1", Position: model.PositionCook}

func TestNoOverlapCriterion_Name(t *testing.T) {
	assert.Equal(t, "NoOverlap", NewNoOverlapCriterion().Name())
}

func TestNoOverlapCriterion_IsCandidateValid(t *testing.T) {
	criterion := NewNoOverlapCriterion()
	state := allocator.NewRunState()
	state.Book(cook, slot(t, "day", "2025-06-10", model.WindowDay, model.PositionCook), false)

	assert.False(t, criterion.IsCandidateValid(state, cook, slot(t, "eve", "2025-06-10", model.WindowEve, model.PositionCook)),
		"DAY 10-18 overlaps EVE 16-00")
	assert.True(t, criterion.IsCandidateValid(state, cook, slot(t, "next", "2025-06-11", model.WindowEve, model.PositionCook)))

	other := &model.Employee{ID: "c2", Position: model.PositionCook}
	assert.True(t, criterion.IsCandidateValid(state, other, slot(t, "eve", "2025-06-10", model.WindowEve, model.PositionCook)))
}

func TestNoOverlapCriterion_SeededBookingsBlock(t *testing.T) {
	criterion := NewNoOverlapCriterion()
	state := allocator.NewRunState()
	state.Book(cook, slot(t, "eve", "2025-06-10", model.WindowEve, model.PositionCook), true)

	assert.False(t, criterion.IsCandidateValid(state, cook, slot(t, "day", "2025-06-10", model.WindowDay, model.PositionCook)))
}

func TestNoOverlapCriterion_ValidateRunState(t *testing.T) {
	criterion := NewNoOverlapCriterion()
	state := allocator.NewRunState()
	state.Book(cook, slot(t, "day", "2025-06-10", model.WindowDay, model.PositionCook), true)
	state.Book(cook, slot(t, "eve", "2025-06-10", model.WindowEve, model.PositionCook), false)

	errors := criterion.ValidateRunState(state)
	require.Len(t, errors, 1)
	assert.Equal(t, "eve", errors[0].ShiftID, "the new booking is reported, not the committed one")
	assert.Equal(t, "c1", errors[0].EmployeeID)
	assert.Equal(t, "NoOverlap", errors[0].CriterionName)
	assert.Equal(t, "2025-06-10", errors[0].ShiftDate)
}

func TestNoOverlapCriterion_ValidateRunState_IgnoresSeededPairs(t *testing.T) {
	criterion := NewNoOverlapCriterion()
	state := allocator.NewRunState()
	state.Book(cook, slot(t, "day", "2025-06-10", model.WindowDay, model.PositionCook), true)
	state.Book(cook, slot(t, "eve", "2025-06-10", model.WindowEve, model.PositionCook), true)

	assert.Empty(t, criterion.ValidateRunState(state))
}

func TestWeeklyHoursCriterion_IsCandidateValid(t *testing.T) {
	criterion := NewWeeklyHoursCriterion(40)
	assert.Equal(t, "WeeklyHours", criterion.Name())
	assert.Equal(t, 40.0, criterion.Limit())

	state := allocator.NewRunState()
	// Sunday 8th to Wednesday 11th, 32 hours
	for _, date := range []string{"2025-06-08", "2025-06-09", "2025-06-10", "2025-06-11"} {
		state.Book(cook, slot(t, date, date, model.WindowDay, model.PositionCook), false)
	}

	assert.True(t, criterion.IsCandidateValid(state, cook, slot(t, "thu", "2025-06-12", model.WindowDay, model.PositionCook)),
		"reaching exactly 40 is allowed")

	state.Book(cook, slot(t, "thu", "2025-06-12", model.WindowDay, model.PositionCook), false)
	assert.False(t, criterion.IsCandidateValid(state, cook, slot(t, "fri", "2025-06-13", model.WindowDay, model.PositionCook)))
	assert.True(t, criterion.IsCandidateValid(state, cook, slot(t, "sun", "2025-06-15", model.WindowDay, model.PositionCook)),
		"new week starts on Sunday")
}

func TestWeeklyHoursCriterion_ValidateRunState(t *testing.T) {
	criterion := NewWeeklyHoursCriterion(16)
	state := allocator.NewRunState()
	state.Book(cook, slot(t, "a", "2025-06-09", model.WindowDay, model.PositionCook), true)
	state.Book(cook, slot(t, "b", "2025-06-10", model.WindowDay, model.PositionCook), true)
	state.Book(cook, slot(t, "c", "2025-06-11", model.WindowDay, model.PositionCook), false)
	state.Book(cook, slot(t, "d", "2025-06-12", model.WindowDay, model.PositionCook), false)

	errors := criterion.ValidateRunState(state)
	require.Len(t, errors, 1, "one error per employee week")
	assert.Equal(t, "c", errors[0].ShiftID)
	assert.Contains(t, errors[0].Description, "32.0 hours")
}

func TestWeeklyHoursCriterion_ValidateRunState_SeededOnlyWeekIgnored(t *testing.T) {
	criterion := NewWeeklyHoursCriterion(8)
	state := allocator.NewRunState()
	state.Book(cook, slot(t, "a", "2025-06-09", model.WindowDay, model.PositionCook), true)
	state.Book(cook, slot(t, "b", "2025-06-10", model.WindowDay, model.PositionCook), true)

	assert.Empty(t, criterion.ValidateRunState(state))
}

func TestPositionMatchCriterion(t *testing.T) {
	criterion := NewPositionMatchCriterion()
	assert.Equal(t, "PositionMatch", criterion.Name())

	state := allocator.NewRunState()
	cookSlot := slot(t, "c", "2025-06-10", model.WindowDay, model.PositionCook)
	serverSlot := slot(t, "s", "2025-06-10", model.WindowEve, model.PositionServer)

	assert.True(t, criterion.IsCandidateValid(state, cook, cookSlot))
	assert.False(t, criterion.IsCandidateValid(state, cook, serverSlot))

	state.Book(cook, serverSlot, false)
	errors := criterion.ValidateRunState(state)
	require.Len(t, errors, 1)
	assert.Equal(t, "s", errors[0].ShiftID)
}

func TestDefault(t *testing.T) {
	criteria := Default(40)

	names := make([]string, len(criteria))
	for i, c := range criteria {
		names[i] = c.Name()
	}
	assert.Equal(t, []string{"PositionMatch", "NoOverlap", "WeeklyHours"}, names)
}
