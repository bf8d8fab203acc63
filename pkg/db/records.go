package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// EmployeeRecord represents the employee table
type EmployeeRecord struct {
	ID         string              `gorm:"primaryKey"`
	Name       string              `gorm:"not null;uniqueIndex:idx_employee_name"`
	Email      string              `gorm:"not null;default:'';index:idx_employee_email,unique,where:email <> ''"`
	Position   string              `gorm:"not null;index"`
	HourlyRate decimal.NullDecimal `gorm:"type:numeric"`
	CreatedAt  time.Time
}

func (EmployeeRecord) TableName() string { return "employee" }

// ShiftRecord represents the shift table.
// Dates are stored as "2006-01-02" so range filters compare lexically.
type ShiftRecord struct {
	ID                 string  `gorm:"primaryKey"`
	ShiftDate          string  `gorm:"not null;index:idx_shift_date_start"`
	StartTime          string  `gorm:"not null;index:idx_shift_date_start"`
	EndTime            string  `gorm:"not null"`
	RequiredPosition   string  `gorm:"not null"`
	AssignedEmployeeID *string `gorm:"index"`
}

func (ShiftRecord) TableName() string { return "shift" }

// PerformanceLogRecord represents the performance_log table.
// LogMonth is derived from LogDate and carries the one-per-month constraint.
type PerformanceLogRecord struct {
	ID         string    `gorm:"primaryKey"`
	EmployeeID string    `gorm:"not null;uniqueIndex:idx_performance_log_month"`
	LogMonth   string    `gorm:"not null;uniqueIndex:idx_performance_log_month"`
	LogDate    string    `gorm:"not null;index"`
	Rating     *int      `gorm:"check:rating IS NULL OR rating BETWEEN 1 AND 5"`
	Notes      string    `gorm:"not null;default:''"`
	RecordedAt time.Time `gorm:"not null"`
}

func (PerformanceLogRecord) TableName() string { return "performance_log" }

func employeeFromRecord(r EmployeeRecord) (model.Employee, error) {
	position, err := model.ParsePosition(r.Position)
	if err != nil {
		return model.Employee{}, fmt.Errorf("employee %s: %w", r.ID, err)
	}

	employee := model.Employee{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Position: position,
	}
	if r.HourlyRate.Valid {
		rate := r.HourlyRate.Decimal
		employee.HourlyRate = &rate
	}
	return employee, nil
}

func employeeToRecord(e *model.Employee) EmployeeRecord {
	r := EmployeeRecord{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		Position: string(e.Position),
	}
	if e.HourlyRate != nil {
		r.HourlyRate = decimal.NewNullDecimal(*e.HourlyRate)
	}
	return r
}

func shiftFromRecord(r ShiftRecord) (model.Shift, error) {
	date, err := model.ParseDate(r.ShiftDate)
	if err != nil {
		return model.Shift{}, fmt.Errorf("shift %s: %w", r.ID, err)
	}
	position, err := model.ParsePosition(r.RequiredPosition)
	if err != nil {
		return model.Shift{}, fmt.Errorf("shift %s: %w", r.ID, err)
	}

	return model.Shift{
		ID:                 r.ID,
		Date:               date,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		RequiredPosition:   position,
		AssignedEmployeeID: r.AssignedEmployeeID,
	}, nil
}

func shiftToRecord(s model.Shift) ShiftRecord {
	return ShiftRecord{
		ID:                 s.ID,
		ShiftDate:          s.Date.Format(model.DateLayout),
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		RequiredPosition:   string(s.RequiredPosition),
		AssignedEmployeeID: s.AssignedEmployeeID,
	}
}

func performanceLogFromRecord(r PerformanceLogRecord) (model.PerformanceLog, error) {
	logDate, err := model.ParseDate(r.LogDate)
	if err != nil {
		return model.PerformanceLog{}, fmt.Errorf("performance log %s: %w", r.ID, err)
	}

	return model.PerformanceLog{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		LogDate:    logDate,
		Rating:     r.Rating,
		Notes:      r.Notes,
		RecordedAt: r.RecordedAt.UTC(),
	}, nil
}

func performanceLogToRecord(l *model.PerformanceLog) PerformanceLogRecord {
	return PerformanceLogRecord{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		LogMonth:   l.LogMonth(),
		LogDate:    l.LogDate.Format(model.DateLayout),
		Rating:     l.Rating,
		Notes:      l.Notes,
		RecordedAt: l.RecordedAt,
	}
}

// PrepareShifts assigns ids to shifts that lack one and rejects invalid positions
func PrepareShifts(shifts []model.Shift) ([]model.Shift, error) {
	prepared := make([]model.Shift, len(shifts))
	for i, s := range shifts {
		if !s.RequiredPosition.IsValid() {
			return nil, fmt.Errorf("shift on %s has invalid position %q", s.Date.Format(model.DateLayout), s.RequiredPosition)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.Date = model.DateOnly(s.Date)
		prepared[i] = s
	}
	return prepared, nil
}

// PrepareEmployee normalises the employee, assigns an id if missing and checks the position
func PrepareEmployee(e *model.Employee) error {
	e.Normalize()
	if e.Name == "" {
		return fmt.Errorf("employee name is required")
	}
	if !e.Position.IsValid() {
		return fmt.Errorf("employee %q has invalid position %q", e.Name, e.Position)
	}
	if e.HourlyRate != nil && e.HourlyRate.IsNegative() {
		return fmt.Errorf("employee %q has negative hourly rate", e.Name)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// PreparePerformanceLog assigns an id and recorded time if missing
func PreparePerformanceLog(l *model.PerformanceLog) error {
	if l.EmployeeID == "" {
		return fmt.Errorf("performance log has no employee")
	}
	if l.Rating != nil && (*l.Rating < 1 || *l.Rating > 5) {
		return fmt.Errorf("performance log rating %d is outside 1-5", *l.Rating)
	}
	l.LogDate = model.DateOnly(l.LogDate)
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.RecordedAt.IsZero() {
		l.RecordedAt = time.Now().UTC()
	}
	return nil
}
