package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/core/services"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule [YYYY-MM]",
		Short: "Generate unassigned shifts for a month from the demand forecast",
		Long: `Generate unassigned shifts for a month from the demand forecast.
Every shift already in the range is replaced, including assigned ones.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			started := time.Now()
			defer func() { app.RecordRun("generate", started, err) }()

			start, end, err := resolvePeriod(cmd, args)
			if err != nil {
				return err
			}

			app.Logger.Debug("generateSchedule command",
				zap.String("start", start.Format(model.DateLayout)),
				zap.String("end", end.Format(model.DateLayout)))

			forecaster, err := app.Forecaster()
			if err != nil {
				return err
			}

			result, err := services.GenerateSchedule(app.Ctx, app.Database, forecaster, app.Cfg, app.Logger, start, end)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if app.Metrics != nil {
				app.Metrics.RecordGenerate(result.PeriodLabel, result.CreatedCount, result.DeletedCount)
			}

			fmt.Printf("\n📅 Schedule for %s\n\n", result.PeriodLabel)
			if result.CreatedCount == 0 && result.DaysGenerated == 0 && len(result.ClosedDays) == 0 {
				fmt.Println("⚠️  No forecast data falls in this range. Existing shifts were left untouched.")
				fmt.Println()
				return nil
			}

			fmt.Printf("Days generated: %d\n", result.DaysGenerated)
			if len(result.ClosedDays) > 0 {
				fmt.Printf("Closed days:    %d\n", len(result.ClosedDays))
				for _, day := range result.ClosedDays {
					fmt.Printf("  • %s\n", day)
				}
			}
			fmt.Printf("Shifts deleted: %d\n", result.DeletedCount)
			fmt.Printf("Shifts created: %d\n\n", result.CreatedCount)

			fmt.Println("✅ Shifts have been saved. Run assignEmployees to fill them.")
			return nil
		},
	}

	addPeriodFlags(cmd)
	return cmd
}
