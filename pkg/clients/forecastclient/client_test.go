package forecastclient

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staff-scheduler/internal/config"
)

// writeScript creates an executable shell script standing in for the forecast model
func writeScript(t *testing.T, body string) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forecast.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))

	client, err := NewClient(config.ForecastConfig{Command: []string{"sh", path}, DataPath: "sales.csv"})
	require.NoError(t, err)
	return client
}

func TestParseForecast(t *testing.T) {
	records, err := ParseForecast([]byte(`[
		{"ds": "2025-06-14", "yhat": 181.2, "yhat_lower": 160.0, "yhat_upper": 200.5},
		{"ds": "2025-06-15T00:00:00.000", "yhat": 120, "yhat_lower": 100, "yhat_upper": 140}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2025-06-14", records[0].Date.Format("2006-01-02"))
	assert.Equal(t, 181.2, records[0].PredictedDemand)
	assert.Equal(t, 160.0, records[0].LowerBound)
	assert.Equal(t, 200.5, records[0].UpperBound)
	assert.Equal(t, "2025-06-15", records[1].Date.Format("2006-01-02"))
}

func TestParseForecast_Invalid(t *testing.T) {
	_, err := ParseForecast([]byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = ParseForecast([]byte(`[{"ds": "tomorrow", "yhat": 1}]`))
	assert.Error(t, err)
}

func TestGenerateForecast_PassesArgumentsAndParsesStdout(t *testing.T) {
	// Fails unless the script receives the expected arguments
	client := writeScript(t, `
if [ "$1" != "--data" ] || [ "$2" != "sales.csv" ] || [ "$3" != "--days" ] || [ "$4" != "37" ]; then
  echo '{"error": "unexpected arguments"}' >&2
  exit 1
fi
echo '[{"ds": "2025-06-14", "yhat": 190, "yhat_lower": 170, "yhat_upper": 210}]'
`)

	records, err := client.GenerateForecast(context.Background(), 37)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 190.0, records[0].PredictedDemand)
}

func TestGenerateForecast_ReportsScriptError(t *testing.T) {
	client := writeScript(t, `
echo "INFO: fitting model" >&2
echo '{"error": "CSV input must contain ds and y columns."}' >&2
exit 1
`)

	_, err := client.GenerateForecast(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV input must contain ds and y columns.")
}

func TestGenerateForecast_NonJSONFailure(t *testing.T) {
	client := writeScript(t, `
echo "Traceback: something broke" >&2
exit 2
`)

	_, err := client.GenerateForecast(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "something broke")
}

func TestGenerateForecast_RejectsNonPositiveHorizon(t *testing.T) {
	client := writeScript(t, "exit 0\n")

	_, err := client.GenerateForecast(context.Background(), 0)
	assert.Error(t, err)
}

func TestNewClient_RequiresCommand(t *testing.T) {
	_, err := NewClient(config.ForecastConfig{})
	assert.Error(t, err)
}
