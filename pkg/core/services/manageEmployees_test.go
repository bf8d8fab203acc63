package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/db"
)

func TestAddEmployee_NormalisesAndStores(t *testing.T) {
	store := &mockStore{employees: cooks()}
	employee := &model.Employee{Name: "  Carol Server ", Email: " Carol@Example.COM", Position: model.PositionServer}

	require.NoError(t, AddEmployee(context.Background(), store, zap.NewNop(), employee))

	assert.NotEmpty(t, employee.ID)
	require.Len(t, store.employees, 3)
	assert.Equal(t, "Carol Server", store.employees[2].Name)
	assert.Equal(t, "carol@example.com", store.employees[2].Email)
}

func TestAddEmployee_RejectsDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		employee model.Employee
		errText  string
	}{
		{"same email different case", model.Employee{Name: "Alicia", Email: "ALICE@example.com", Position: model.PositionCook}, "email"},
		{"same name", model.Employee{Name: "Bob Cook", Email: "bobby@example.com", Position: model.PositionServer}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{employees: cooks()}

			err := AddEmployee(context.Background(), store, zap.NewNop(), &tt.employee)
			require.ErrorIs(t, err, db.ErrDuplicateEmployee)
			assert.Contains(t, err.Error(), tt.errText)
			assert.Len(t, store.employees, 2)
		})
	}
}

func TestAddEmployee_TwoWithoutEmailAllowed(t *testing.T) {
	store := &mockStore{employees: []model.Employee{{ID: "d1", Name: "Dan", Position: model.PositionDishwasher}}}

	err := AddEmployee(context.Background(), store, zap.NewNop(), &model.Employee{Name: "Dee", Position: model.PositionDishwasher})
	require.NoError(t, err)
	assert.Len(t, store.employees, 2)
}

func TestAddEmployee_Invalid(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name     string
		employee model.Employee
	}{
		{"no name", model.Employee{Name: "  ", Position: model.PositionCook}},
		{"bad email", model.Employee{Name: "Eve", Email: "not-an-email", Position: model.PositionCook}},
		{"unknown position", model.Employee{Name: "Eve", Position: "Sommelier"}},
		{"negative rate", model.Employee{Name: "Eve", Position: model.PositionCook, HourlyRate: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			err := AddEmployee(context.Background(), store, zap.NewNop(), &tt.employee)
			require.Error(t, err)
			assert.Empty(t, store.employees)
		})
	}
}

func TestAddEmployee_StoreFailure(t *testing.T) {
	store := &mockStore{writeErr: errStore}

	err := AddEmployee(context.Background(), store, zap.NewNop(), &model.Employee{Name: "Eve", Position: model.PositionCook})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errStore)
}

func TestUpdateEmployee_AppliesChanges(t *testing.T) {
	store := &mockStore{employees: cooks()}
	rate := decimal.RequireFromString("21.00")
	position := model.PositionChef
	email := "Alice.New@example.com"

	updated, err := UpdateEmployee(context.Background(), store, zap.NewNop(), "c1", EmployeeUpdate{
		Email:      &email,
		Position:   &position,
		HourlyRate: &rate,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Cook", updated.Name, "unset fields are kept")
	assert.Equal(t, "alice.new@example.com", updated.Email)
	assert.Equal(t, model.PositionChef, store.employees[0].Position)
	require.NotNil(t, store.employees[0].HourlyRate)
	assert.True(t, rate.Equal(*store.employees[0].HourlyRate))

	updated, err = UpdateEmployee(context.Background(), store, zap.NewNop(), "c1", EmployeeUpdate{ClearRate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.HourlyRate)
}

func TestUpdateEmployee_KeepingOwnEmailIsNotADuplicate(t *testing.T) {
	store := &mockStore{employees: cooks()}
	email := "alice@example.com"

	_, err := UpdateEmployee(context.Background(), store, zap.NewNop(), "c1", EmployeeUpdate{Email: &email})
	assert.NoError(t, err)
}

func TestUpdateEmployee_RejectsAnotherEmployeesEmail(t *testing.T) {
	store := &mockStore{employees: cooks()}
	email := "bob@example.com"

	_, err := UpdateEmployee(context.Background(), store, zap.NewNop(), "c1", EmployeeUpdate{Email: &email})
	require.ErrorIs(t, err, db.ErrDuplicateEmployee)
	assert.Equal(t, "alice@example.com", store.employees[0].Email)
}

func TestUpdateEmployee_Unknown(t *testing.T) {
	store := &mockStore{employees: cooks()}
	name := "Nobody"

	_, err := UpdateEmployee(context.Background(), store, zap.NewNop(), "missing", EmployeeUpdate{Name: &name})
	assert.ErrorIs(t, err, db.ErrEmployeeNotFound)
	assert.NotErrorIs(t, err, ErrPersistence)
}

func TestDeleteEmployee_ReleasesShifts(t *testing.T) {
	store := &mockStore{
		employees: cooks(),
		shifts: []model.Shift{
			assignedTo(shiftOn("s1", "2025-06-02", model.WindowDay, model.PositionCook), "c1"),
			assignedTo(shiftOn("s2", "2025-06-03", model.WindowDay, model.PositionCook), "c2"),
			assignedTo(shiftOn("s3", "2025-06-04", model.WindowEve, model.PositionCook), "c1"),
		},
	}

	released, err := DeleteEmployee(context.Background(), store, zap.NewNop(), "c1")
	require.NoError(t, err)

	assert.Equal(t, 2, released)
	require.Len(t, store.employees, 1)
	assert.Equal(t, "c2", store.employees[0].ID)
	assert.Nil(t, store.shifts[0].AssignedEmployeeID)
	assert.Equal(t, "c2", *store.shifts[1].AssignedEmployeeID)
}

func TestDeleteEmployee_Unknown(t *testing.T) {
	store := &mockStore{employees: cooks()}

	_, err := DeleteEmployee(context.Background(), store, zap.NewNop(), "missing")
	assert.ErrorIs(t, err, db.ErrEmployeeNotFound)
	assert.Len(t, store.employees, 2)
}
