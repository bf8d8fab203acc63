package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

// mockStore is an in-memory shift and employee store
type mockStore struct {
	shifts    []model.Shift
	employees []model.Employee
	logs      []model.PerformanceLog

	getEmployeesErr error
	findErr         error
	replaceErr      error
	writeErr        error

	// assignErr is returned after assignFailAfter assignments have been applied
	assignErr       error
	assignFailAfter int

	// raced shift ids are taken by another run just before commit
	raced map[string]bool

	replaceCalls int
	assignCalls  int
}

func (m *mockStore) GetEmployees(ctx context.Context) ([]model.Employee, error) {
	if m.getEmployeesErr != nil {
		return nil, m.getEmployeesErr
	}
	return append([]model.Employee{}, m.employees...), nil
}

func (m *mockStore) FindShiftsInRange(ctx context.Context, start, end time.Time, filter db.AssignmentFilter) ([]model.Shift, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}

	found := make([]model.Shift, 0)
	for _, shift := range m.shifts {
		if shift.Date.Before(start) || shift.Date.After(end) {
			continue
		}
		if filter == db.Unassigned && shift.IsAssigned() {
			continue
		}
		if filter == db.Assigned && !shift.IsAssigned() {
			continue
		}
		found = append(found, shift)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if !found[i].Date.Equal(found[j].Date) {
			return found[i].Date.Before(found[j].Date)
		}
		return found[i].StartTime < found[j].StartTime
	})
	return found, nil
}

func (m *mockStore) ReplaceShiftsInRange(ctx context.Context, start, end time.Time, shifts []model.Shift) (int, []model.Shift, error) {
	m.replaceCalls++
	if m.replaceErr != nil {
		return 0, nil, m.replaceErr
	}

	kept := make([]model.Shift, 0, len(m.shifts))
	deleted := 0
	for _, shift := range m.shifts {
		if !shift.Date.Before(start) && !shift.Date.After(end) {
			deleted++
			continue
		}
		kept = append(kept, shift)
	}
	m.shifts = append(kept, shifts...)
	return deleted, shifts, nil
}

func (m *mockStore) AssignShifts(ctx context.Context, assignments []model.Assignment) ([]model.Assignment, error) {
	m.assignCalls++
	applied := make([]model.Assignment, 0, len(assignments))

	for _, assignment := range assignments {
		if m.assignErr != nil && len(applied) == m.assignFailAfter {
			return applied, m.assignErr
		}
		if m.raced[assignment.ShiftID] {
			continue
		}
		for i := range m.shifts {
			if m.shifts[i].ID != assignment.ShiftID || m.shifts[i].IsAssigned() {
				continue
			}
			employeeID := assignment.EmployeeID
			m.shifts[i].AssignedEmployeeID = &employeeID
			applied = append(applied, assignment)
		}
	}
	return applied, nil
}

func (m *mockStore) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	if m.getEmployeesErr != nil {
		return nil, m.getEmployeesErr
	}
	for _, e := range m.employees {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", db.ErrEmployeeNotFound, id)
}

func (m *mockStore) InsertEmployee(ctx context.Context, employee *model.Employee) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if employee.ID == "" {
		employee.ID = fmt.Sprintf("emp-%d", len(m.employees)+1)
	}
	m.employees = append(m.employees, *employee)
	return nil
}

func (m *mockStore) UpdateEmployee(ctx context.Context, employee *model.Employee) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	for i := range m.employees {
		if m.employees[i].ID == employee.ID {
			m.employees[i] = *employee
			return nil
		}
	}
	return fmt.Errorf("%w: %s", db.ErrEmployeeNotFound, employee.ID)
}

func (m *mockStore) DeleteEmployee(ctx context.Context, id string) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}

	kept := m.employees[:0]
	found := false
	for _, e := range m.employees {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return 0, fmt.Errorf("%w: %s", db.ErrEmployeeNotFound, id)
	}
	m.employees = kept

	released := 0
	for i := range m.shifts {
		if m.shifts[i].AssignedEmployeeID != nil && *m.shifts[i].AssignedEmployeeID == id {
			m.shifts[i].AssignedEmployeeID = nil
			released++
		}
	}
	return released, nil
}

func (m *mockStore) InsertPerformanceLog(ctx context.Context, log *model.PerformanceLog) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if log.ID == "" {
		log.ID = fmt.Sprintf("log-%d", len(m.logs)+1)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockStore) ListPerformanceLogs(ctx context.Context, employeeID string) ([]model.PerformanceLog, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	found := make([]model.PerformanceLog, 0)
	for _, l := range m.logs {
		if employeeID == "" || l.EmployeeID == employeeID {
			found = append(found, l)
		}
	}
	return found, nil
}

// mockForecaster returns fixed records and remembers the horizon it was asked for
type mockForecaster struct {
	records   []model.DemandRecord
	err       error
	daysAhead int
}

func (m *mockForecaster) GenerateForecast(ctx context.Context, daysAhead int) ([]model.DemandRecord, error) {
	m.daysAhead = daysAhead
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

type notification struct {
	email  string
	name   string
	shifts []model.Shift
	period string
}

type mockNotifier struct {
	sent []notification
	err  error
}

func (m *mockNotifier) SendScheduleNotification(ctx context.Context, email, name string, shifts []model.Shift, periodLabel string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, notification{email: email, name: name, shifts: shifts, period: periodLabel})
	return nil
}

var errStore = errors.New("store unavailable")

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// freezeClock pins the service clock for the duration of the test
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	original := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = original })
}

func testConfig() *config.Config {
	return &config.Config{
		Notifications: config.NotificationsConfig{Enabled: true},
		GmailSender:   "rota@example.com",
	}
}

func shiftOn(id, day string, window model.Window, position model.Position) model.Shift {
	start, end := window.Times()
	return model.Shift{
		ID:               id,
		Date:             date(day),
		StartTime:        start,
		EndTime:          end,
		RequiredPosition: position,
	}
}

func assignedTo(shift model.Shift, employeeID string) model.Shift {
	shift.AssignedEmployeeID = &employeeID
	return shift
}
