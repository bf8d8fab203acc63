package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/services"
	"github.com/jakechorley/staff-scheduler/pkg/metrics"
)

// AssignEmployeesCmd creates the assignEmployees command
func AssignEmployeesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignEmployees [YYYY-MM]",
		Short: "Assign employees to the unassigned shifts of a month",
		Long: `Run the assignment algorithm over a month's unassigned shifts, commit the
assignments and email each employee their new shifts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			started := time.Now()
			defer func() { app.RecordRun("assign", started, err) }()

			start, end, err := resolvePeriod(cmd, args)
			if err != nil {
				return err
			}

			seed, _ := cmd.Flags().GetInt64("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			ignoreCommitted, _ := cmd.Flags().GetBool("ignore-committed")

			app.Logger.Debug("assignEmployees command",
				zap.Int64("seed", seed),
				zap.Bool("dry_run", dryRun),
				zap.Bool("ignore_committed", ignoreCommitted))

			var notifier services.Notifier
			if !dryRun {
				notifier, err = app.Notifier()
				if err != nil {
					return err
				}
			}

			opts := services.AssignOptions{Seed: seed, DryRun: dryRun, IgnoreCommitted: ignoreCommitted}
			result, err := services.AssignEmployees(app.Ctx, app.Database, notifier, app.Cfg, app.Logger, opts, start, end)

			var commitErr *services.CommitError
			if err != nil && !errors.As(err, &commitErr) {
				return fmt.Errorf("assignment failed: %w", err)
			}

			if app.Metrics != nil && !dryRun {
				app.Metrics.RecordAssign(result.PeriodLabel, assignCounts(result, commitErr))
			}

			fmt.Printf("\n🎯 Assignment Results for %s\n\n", result.PeriodLabel)
			fmt.Printf("Seed:       %d\n", result.Seed)
			if dryRun {
				fmt.Printf("Mode:       🧪 DRY RUN (not saved)\n")
				fmt.Printf("Prepared:   %d\n", result.Attempted)
			} else {
				fmt.Printf("Attempted:  %d\n", result.Attempted)
				fmt.Printf("Assigned:   %d\n", result.AssignedCount)
			}
			fmt.Printf("Unfilled:   %d\n", result.Unfilled)
			if !dryRun && app.Cfg.Notifications.Enabled {
				fmt.Printf("Notified:   %d\n", result.Notified)
				if result.NotificationFailures > 0 {
					fmt.Printf("⚠️  Failed notifications: %d (see log)\n", result.NotificationFailures)
				}
			}
			fmt.Println()

			if len(result.ValidationErrors) > 0 {
				fmt.Printf("⚠️  Validation Errors (%d):\n", len(result.ValidationErrors))
				for _, verr := range result.ValidationErrors {
					fmt.Printf("  • Shift %s (%s) - %s: %s\n", verr.ShiftID, verr.ShiftDate, verr.CriterionName, verr.Description)
				}
				fmt.Println()
			}

			if commitErr != nil {
				fmt.Printf("❌ Commit stopped after %d of %d assignments. Applied assignments were kept.\n", commitErr.Applied, commitErr.Attempted)
				return err
			}

			if !dryRun && result.AssignedCount < result.Attempted {
				fmt.Printf("⚠️  %d shifts were taken by another run and skipped.\n", result.Attempted-result.AssignedCount)
			}
			if dryRun {
				fmt.Println("💡 This was a dry run. Use the same --seed without --dry-run to save it.")
			}

			return nil
		},
	}

	addPeriodFlags(cmd)
	cmd.Flags().Int64("seed", 0, "Seed for the candidate shuffle (0 picks one from the clock)")
	cmd.Flags().Bool("dry-run", false, "Compute assignments without saving or notifying")
	cmd.Flags().Bool("ignore-committed", false, "Ignore assignments made by earlier runs when checking limits")

	return cmd
}

// assignCounts converts a committed run into metric counts. Shortfall only counts as
// lost races when the commit completed; a stopped commit never attempted the rest.
func assignCounts(result *services.AssignEmployeesResult, commitErr *services.CommitError) metrics.AssignCounts {
	counts := metrics.AssignCounts{
		Attempted:            result.Attempted,
		Assigned:             result.AssignedCount,
		Unfilled:             result.Unfilled,
		Notified:             result.Notified,
		NotificationFailures: result.NotificationFailures,
	}
	if commitErr == nil {
		counts.RaceLost = result.Attempted - result.AssignedCount
	}
	return counts
}
