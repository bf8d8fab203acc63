package staffing

import "github.com/jakechorley/staff-scheduler/pkg/core/model"

const (
	// DemandThreshold is the predicted demand at or above which the EVE surcharge applies
	DemandThreshold = 175

	// ShiftHours is the length of every generated shift
	ShiftHours = 8

	// WeeklyHourLimit caps the hours one employee may be scheduled in a week
	WeeklyHourLimit = 40
)

var baseNeeds = map[model.Window]map[model.Position]int{
	model.WindowDay: {
		model.PositionManager:      1,
		model.PositionHost:         1,
		model.PositionServer:       1,
		model.PositionBartender:    1,
		model.PositionChefDePartie: 1,
		model.PositionCook:         2,
		model.PositionDishwasher:   1,
		model.PositionChef:         1,
	},
	model.WindowEve: {
		model.PositionManager:      1,
		model.PositionHost:         1,
		model.PositionServer:       3,
		model.PositionBartender:    1,
		model.PositionChefDePartie: 2,
		model.PositionCook:         4,
		model.PositionDishwasher:   2,
		model.PositionSousChef:     1,
	},
}

// highDemandExtra only ever applies to the EVE window
var highDemandExtra = map[model.Position]int{
	model.PositionServer: 2,
	model.PositionCook:   2,
}

// IsHighDemand reports whether demand triggers the EVE surcharge
func IsHighDemand(demand float64) bool {
	return demand >= DemandThreshold
}

// RequiredHeadcount returns how many staff of the given position the window needs
// at the given predicted demand. Positions absent from the table need zero.
func RequiredHeadcount(window model.Window, position model.Position, demand float64) int {
	count := baseNeeds[window][position]
	if window == model.WindowEve && IsHighDemand(demand) {
		count += highDemandExtra[position]
	}
	return max(count, 0)
}

// Needs returns the non-zero headcount per position for the window
func Needs(window model.Window, demand float64) map[model.Position]int {
	needs := make(map[model.Position]int)
	for _, position := range model.Positions {
		if n := RequiredHeadcount(window, position, demand); n > 0 {
			needs[position] = n
		}
	}
	return needs
}
