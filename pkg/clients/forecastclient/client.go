package forecastclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// Client runs the demand forecasting script and parses its JSON output
type Client struct {
	command  []string
	dataPath string
}

// forecastRow is one record of the script's stdout
type forecastRow struct {
	DS        string  `json:"ds"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

// scriptError is the payload the script writes to stderr on failure
type scriptError struct {
	Error string `json:"error"`
}

// NewClient creates a forecast client from the forecast config
func NewClient(cfg config.ForecastConfig) (*Client, error) {
	if len(cfg.Command) == 0 {
		return nil, fmt.Errorf("forecast command is not configured")
	}
	return &Client{command: cfg.Command, dataPath: cfg.DataPath}, nil
}

// GenerateForecast predicts demand for the next daysAhead days.
// The script receives --data <path> --days <n> and prints a JSON array to stdout.
func (c *Client) GenerateForecast(ctx context.Context, daysAhead int) ([]model.DemandRecord, error) {
	if daysAhead <= 0 {
		return nil, fmt.Errorf("days ahead must be positive, got %d", daysAhead)
	}

	args := append(append([]string{}, c.command[1:]...), "--data", c.dataPath, "--days", strconv.Itoa(daysAhead))
	cmd := exec.CommandContext(ctx, c.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("forecast script failed: %w", scriptFailure(err, stderr.Bytes()))
	}

	return ParseForecast(stdout.Bytes())
}

// ParseForecast converts the script's JSON output into demand records
func ParseForecast(data []byte) ([]model.DemandRecord, error) {
	var rows []forecastRow
	if err := json.Unmarshal(bytes.TrimSpace(data), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse forecast output: %w", err)
	}

	records := make([]model.DemandRecord, 0, len(rows))
	for i, row := range rows {
		// Accept both "2006-01-02" and ISO timestamps
		ds := row.DS
		if len(ds) > len(model.DateLayout) {
			ds = ds[:len(model.DateLayout)]
		}
		date, err := model.ParseDate(ds)
		if err != nil {
			return nil, fmt.Errorf("forecast row %d: %w", i, err)
		}

		records = append(records, model.DemandRecord{
			Date:            date,
			PredictedDemand: row.Yhat,
			LowerBound:      row.YhatLower,
			UpperBound:      row.YhatUpper,
		})
	}
	return records, nil
}

// scriptFailure prefers the script's own error message over the exit status
func scriptFailure(runErr error, stderr []byte) error {
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return runErr
	}

	trimmed := bytes.TrimSpace(stderr)
	var payload scriptError
	if err := json.Unmarshal(trimmed, &payload); err == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}

	// Prophet logs to stderr, so the JSON error is usually on the last line
	lines := strings.Split(string(trimmed), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		if err := json.Unmarshal([]byte(last), &payload); err == nil && payload.Error != "" {
			return errors.New(payload.Error)
		}
		return fmt.Errorf("%w: %s", runErr, last)
	}
	return runErr
}
