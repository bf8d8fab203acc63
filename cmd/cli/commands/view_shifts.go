package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/core/services"
)

// ViewShiftsCmd creates the viewShifts command
func ViewShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewShifts [YYYY-MM]",
		Short: "Show a month's shifts with their assigned employees",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := resolvePeriod(cmd, args)
			if err != nil {
				return err
			}
			summaryOnly, _ := cmd.Flags().GetBool("summary")

			app.Logger.Debug("viewShifts command", zap.Bool("summary", summaryOnly))

			shifts, err := services.GetShiftsForPeriod(app.Ctx, app.Database, app.Logger, start, end)
			if err != nil {
				return err
			}

			// ANSI color codes
			const (
				colorReset  = "\033[0m"
				colorGreen  = "\033[32m"
				colorYellow = "\033[33m"
				colorBold   = "\033[1m"
			)

			fmt.Printf("\n📅 Shifts for %s\n\n", model.PeriodLabel(start))

			if !summaryOnly {
				fmt.Printf("%s%-16s  %-6s  %-11s  %-16s  %s%s\n", colorBold, "Date", "Window", "Time", "Position", "Employee", colorReset)
				fmt.Printf("%s  %s  %s  %s  %s\n",
					strings.Repeat("-", 16), strings.Repeat("-", 6), strings.Repeat("-", 11), strings.Repeat("-", 16), strings.Repeat("-", 20))

				for _, shift := range shifts {
					employee := colorYellow + "—" + colorReset
					if shift.AssignedEmployee != nil {
						employee = colorGreen + shift.AssignedEmployee.Name + colorReset
					} else if shift.IsAssigned() {
						employee = *shift.AssignedEmployeeID
					}

					fmt.Printf("%-16s  %-6s  %-11s  %-16s  %s\n",
						shift.Date.Format("Mon Jan 02 2006"),
						model.WindowFor(shift.StartTime),
						shift.StartTime+"-"+shift.EndTime,
						shift.RequiredPosition,
						employee)
				}
				fmt.Println()
			}

			summary := services.SummarisePeriod(shifts)
			fmt.Printf("%sSummary%s\n", colorBold, colorReset)
			fmt.Printf("Shifts: %d, filled: %d\n\n", summary.Total, summary.Filled)
			for _, ps := range summary.Positions {
				fmt.Printf("  %-16s %4d / %-4d\n", ps.Position, ps.Filled, ps.Required)
			}
			fmt.Println()
			fmt.Printf("Estimated labour cost: %s\n", summary.LabourCost.StringFixed(2))
			if summary.UnratedShifts > 0 {
				fmt.Printf("  (%d assigned shifts have no hourly rate and are not costed)\n", summary.UnratedShifts)
			}
			fmt.Println()

			return nil
		},
	}

	addPeriodFlags(cmd)
	cmd.Flags().Bool("summary", false, "Only print the per-position summary")
	return cmd
}
