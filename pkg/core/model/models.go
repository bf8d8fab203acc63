package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Position string

const (
	PositionManager      Position = "Manager"
	PositionHost         Position = "Host/Hostess"
	PositionServer       Position = "Server"
	PositionBartender    Position = "Bartender"
	PositionChefDePartie Position = "Chef de Partie"
	PositionCook         Position = "Cook"
	PositionDishwasher   Position = "Dishwasher"
	PositionChef         Position = "Chef"
	PositionSousChef     Position = "Sous Chef"
)

// Positions lists every position in display order
var Positions = []Position{
	PositionManager,
	PositionHost,
	PositionServer,
	PositionBartender,
	PositionChefDePartie,
	PositionCook,
	PositionDishwasher,
	PositionChef,
	PositionSousChef,
}

func (p Position) IsValid() bool {
	switch p {
	case PositionManager, PositionHost, PositionServer, PositionBartender,
		PositionChefDePartie, PositionCook, PositionDishwasher, PositionChef, PositionSousChef:
		return true
	}
	return false
}

// ParsePosition converts a stored or user supplied string into a Position
func ParsePosition(s string) (Position, error) {
	p := Position(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown position %q", s)
	}
	return p, nil
}

// Window is one of the fixed daily work periods
type Window string

const (
	WindowDay Window = "DAY"
	WindowEve Window = "EVE"
)

// Windows returns the shift windows in generation order
func Windows() []Window {
	return []Window{WindowDay, WindowEve}
}

// Times returns the "HH:MM" start and end of the window.
// EVE ends at midnight, so its end is before its start.
func (w Window) Times() (start, end string) {
	switch w {
	case WindowDay:
		return "10:00", "18:00"
	case WindowEve:
		return "16:00", "00:00"
	}
	return "", ""
}

// WindowFor returns the window whose times match the given start time, or "" if none do
func WindowFor(startTime string) Window {
	for _, w := range Windows() {
		if start, _ := w.Times(); start == startTime {
			return w
		}
	}
	return ""
}

// Employee represents a member of staff on the roster
type Employee struct {
	ID         string
	Name       string
	Email      string
	Position   Position
	HourlyRate *decimal.Decimal // nil if not recorded
}

// Normalize trims the name and lower-cases the email so uniqueness checks compare like with like
func (e *Employee) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
}

// Shift represents one staffing slot for one position.
// A headcount of three produces three Shift records.
type Shift struct {
	ID                 string
	Date               time.Time // UTC midnight
	StartTime          string    // "HH:MM"
	EndTime            string    // "HH:MM", wraps past midnight when <= StartTime
	RequiredPosition   Position
	AssignedEmployeeID *string

	// AssignedEmployee is only populated by period queries
	AssignedEmployee *Employee
}

// IsAssigned reports whether an employee has been assigned to the shift
func (s *Shift) IsAssigned() bool {
	return s.AssignedEmployeeID != nil
}

// DemandRecord is one day of forecast demand
type DemandRecord struct {
	Date            time.Time
	PredictedDemand float64
	LowerBound      float64
	UpperBound      float64
}

// Assignment pairs a shift with the employee chosen for it
type Assignment struct {
	ShiftID    string
	EmployeeID string
}

// PerformanceLog is a manager's monthly note on an employee.
// An employee has at most one log per calendar month of LogDate.
type PerformanceLog struct {
	ID         string
	EmployeeID string
	LogDate    time.Time // UTC midnight
	Rating     *int      // 1 to 5, nil if not rated
	Notes      string
	RecordedAt time.Time

	// Employee is only populated by listing queries
	Employee *Employee
}

// LogMonth returns the "2006-01" month the log counts against
func (l *PerformanceLog) LogMonth() string {
	return l.LogDate.Format(MonthLayout)
}
