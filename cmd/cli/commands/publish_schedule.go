package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/staff-scheduler/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishSchedule [YYYY-MM]",
		Short: "Publish a month's schedule to Google Sheets",
		Long:  "Publish a month's schedule to a tab named after the month, replacing the tab's contents if it exists.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			started := time.Now()
			defer func() { app.RecordRun("publish", started, err) }()

			start, end, err := resolvePeriod(cmd, args)
			if err != nil {
				return err
			}

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			schedule, err := services.PublishSchedule(app.Ctx, app.Database, sheets, app.Cfg, app.Logger, start, end)
			if err != nil {
				return fmt.Errorf("failed to publish schedule: %w", err)
			}

			fmt.Printf("\n✅ Schedule Published Successfully\n\n")
			fmt.Printf("Tab:      %s\n", schedule.Title)
			fmt.Printf("Rows:     %d\n", len(schedule.Rows))
			fmt.Printf("Sheet ID: %s\n\n", app.Cfg.ScheduleSheetID)

			return nil
		},
	}

	addPeriodFlags(cmd)
	return cmd
}
