package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

func TestEmployeeUpdateFromFlags(t *testing.T) {
	cmd := UpdateEmployeeCmd(&AppContext{})
	require.NoError(t, cmd.ParseFlags([]string{"--email", "", "--position", "Sous Chef", "--rate", "19.75"}))

	update, err := employeeUpdateFromFlags(cmd)
	require.NoError(t, err)

	assert.Nil(t, update.Name)
	require.NotNil(t, update.Email)
	assert.Equal(t, "", *update.Email, "an explicit empty email removes it")
	require.NotNil(t, update.Position)
	assert.Equal(t, model.PositionSousChef, *update.Position)
	require.NotNil(t, update.HourlyRate)
	assert.Equal(t, "19.75", update.HourlyRate.StringFixed(2))
	assert.False(t, update.ClearRate)
}

func TestEmployeeUpdateFromFlags_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
	}{
		{"no flags", nil},
		{"bad position", []string{"--position", "Sommelier"}},
		{"bad rate", []string{"--rate", "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := UpdateEmployeeCmd(&AppContext{})
			require.NoError(t, cmd.ParseFlags(tt.flags))

			_, err := employeeUpdateFromFlags(cmd)
			assert.Error(t, err)
		})
	}
}

func TestFormatRating(t *testing.T) {
	three := 3
	assert.Equal(t, "★★★☆☆", formatRating(&three))
	assert.Equal(t, "unrated", formatRating(nil))
}
