package sheetsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// ScheduleHeader is the first row of every published schedule tab
var ScheduleHeader = []string{"Date", "Window", "Start", "End", "Position", "Employee"}

// PublishedScheduleRow represents one shift in the published schedule
type PublishedScheduleRow struct {
	Date     string // Format: "Mon Jan 02 2006"
	Window   string
	Start    string
	End      string
	Position string
	Employee string // Blank when unassigned
}

// PublishedSchedule represents the complete published schedule for a period
type PublishedSchedule struct {
	// Title names the tab, e.g. "June 2025"
	Title string
	Rows  []PublishedScheduleRow
}

// PublishSchedule writes the schedule to a tab named after its title.
// The tab is created if missing; otherwise its values are cleared and rewritten.
func (c *Client) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *PublishedSchedule) error {
	exists, err := c.HasSheet(ctx, spreadsheetID, schedule.Title)
	if err != nil {
		return err
	}

	if exists {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, fmt.Sprintf("'%s'", schedule.Title), &sheets.ClearValuesRequest{}).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(ctx, spreadsheetID, schedule.Title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	valueRange := &sheets.ValueRange{
		Values: scheduleValues(schedule),
	}

	_, err = c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		fmt.Sprintf("'%s'!A1", schedule.Title),
		valueRange,
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write schedule to tab: %w", err)
	}

	return nil
}

// scheduleValues lays out the header followed by one row per shift
func scheduleValues(schedule *PublishedSchedule) [][]interface{} {
	header := make([]interface{}, len(ScheduleHeader))
	for i, h := range ScheduleHeader {
		header[i] = h
	}

	values := make([][]interface{}, 0, len(schedule.Rows)+1)
	values = append(values, header)
	for _, row := range schedule.Rows {
		values = append(values, []interface{}{row.Date, row.Window, row.Start, row.End, row.Position, row.Employee})
	}
	return values
}
