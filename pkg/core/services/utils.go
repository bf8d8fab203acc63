package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// now is the clock used for forecast horizons; tests replace it
var now = time.Now

// ForecastHorizon returns how many days the forecaster must cover so that every
// day up to end is predicted, plus a week of margin
func ForecastHorizon(today, end time.Time) int {
	startOfToday := model.DateOnly(today)
	endOfDay := model.DateOnly(end).Add(24*time.Hour - time.Millisecond)

	days := int(math.Ceil(endOfDay.Sub(startOfToday).Hours() / 24))
	return max(1, days) + 7
}

// validateRange rejects inverted ranges
func validateRange(start, end time.Time) error {
	if model.DateOnly(end).Before(model.DateOnly(start)) {
		return fmt.Errorf("end date %s is before start date %s", end.Format(model.DateLayout), start.Format(model.DateLayout))
	}
	return nil
}

// closedDates expands the configured closure rules into the set of dates in [start, end]
func closedDates(closures []config.Closure, start, end time.Time, logger *zap.Logger) (map[string]string, error) {
	closed := make(map[string]string)
	if len(closures) == 0 {
		return closed, nil
	}

	// Search a week either side so weekly rules anchored on start still match
	searchStart := model.DateOnly(start).AddDate(0, 0, -7)
	searchEnd := model.DateOnly(end).AddDate(0, 0, 7)

	for i, closure := range closures {
		rule, err := rrule.StrToRRule(closure.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for closure %d: %w", i, err)
		}
		rule.DTStart(searchStart)

		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			day := model.DateOnly(occurrence)
			if day.Before(model.DateOnly(start)) || day.After(model.DateOnly(end)) {
				continue
			}
			closed[day.Format(model.DateLayout)] = closure.Reason
		}

		logger.Debug("Expanded closure rule",
			zap.Int("index", i),
			zap.String("rrule", closure.RRule),
			zap.String("reason", closure.Reason))
	}

	return closed, nil
}

// sortShifts orders shifts by date, start time, then position for stable output
func sortShifts(shifts []model.Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		if shifts[i].StartTime != shifts[j].StartTime {
			return shifts[i].StartTime < shifts[j].StartTime
		}
		return shifts[i].RequiredPosition < shifts[j].RequiredPosition
	})
}

// employeesByID indexes the roster
func employeesByID(employees []model.Employee) map[string]*model.Employee {
	byID := make(map[string]*model.Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}
	return byID
}
