package model

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Interval is a half-open [Start, End) span of absolute time
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect
func (i Interval) Overlaps(other Interval) bool {
	return other.Start.Before(i.End) && other.End.After(i.Start)
}

// Hours returns the length of the interval in hours
func (i Interval) Hours() float64 {
	return i.End.Sub(i.Start).Hours()
}

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" date as UTC midnight
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// ParseMonth resolves "2006-01" to the first and last calendar day of that month
func ParseMonth(s string) (start, end time.Time, err error) {
	first, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return first, first.AddDate(0, 1, -1), nil
}

// WeekStart returns the most recent Sunday 00:00 UTC on or before date
func WeekStart(date time.Time) time.Time {
	d := DateOnly(date)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// PeriodLabel formats the month of start, e.g. "June 2025"
func PeriodLabel(start time.Time) string {
	return start.UTC().Format("January 2006")
}

// parseClock parses "HH:MM" into hours and minutes
func parseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Interval returns the absolute instants the shift covers.
// When EndTime <= StartTime the shift runs into the next calendar day.
func (s *Shift) Interval() (Interval, error) {
	startHour, startMin, err := parseClock(s.StartTime)
	if err != nil {
		return Interval{}, err
	}
	endHour, endMin, err := parseClock(s.EndTime)
	if err != nil {
		return Interval{}, err
	}

	day := DateOnly(s.Date)
	start := day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	end := day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return Interval{Start: start, End: end}, nil
}
