package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/core/services"
)

// LogPerformanceCmd creates the logPerformance command
func LogPerformanceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logPerformance <employee_id> <YYYY-MM-DD>",
		Short: "Record an employee's performance log for the month of the given date",
		Long: `Record a performance log for an employee. Each employee has at most one log
per calendar month; the date picks the month.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logDate, err := model.ParseDate(args[1])
			if err != nil {
				return err
			}

			notes, _ := cmd.Flags().GetString("notes")
			input := services.PerformanceLogInput{EmployeeID: args[0], LogDate: logDate, Notes: notes}
			if cmd.Flags().Changed("rating") {
				r, _ := cmd.Flags().GetInt("rating")
				input.Rating = &r
			}

			entry, err := services.RecordPerformanceLog(app.Ctx, app.Database, app.Logger, input)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Performance log recorded for %s, %s (%s)\n",
				entry.Employee.Name, model.PeriodLabel(entry.LogDate), formatRating(entry.Rating))
			return nil
		},
	}

	cmd.Flags().Int("rating", 0, "Rating from 1 to 5")
	cmd.Flags().String("notes", "", "Free text notes")

	return cmd
}

// ListPerformanceLogsCmd creates the listPerformanceLogs command
func ListPerformanceLogsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listPerformanceLogs",
		Short: "List performance logs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, _ := cmd.Flags().GetString("employee")

			logs, err := services.ListPerformanceLogs(app.Ctx, app.Database, app.Logger, employeeID)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d performance logs:\n\n", len(logs))
			for _, l := range logs {
				name := l.EmployeeID
				if l.Employee != nil {
					name = l.Employee.Name
				}
				fmt.Printf("  %s  %-24s %s  %s\n", l.LogDate.Format(model.DateLayout), name, formatRating(l.Rating), l.Notes)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("employee", "", "Only show logs for this employee id")

	return cmd
}

// formatRating renders a rating as filled and empty stars, e.g. "★★★☆☆"
func formatRating(rating *int) string {
	if rating == nil {
		return "unrated"
	}
	return strings.Repeat("★", *rating) + strings.Repeat("☆", 5-*rating)
}
