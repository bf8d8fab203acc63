package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// addPeriodFlags registers --start and --end as an alternative to the month argument
func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "First day of the range (YYYY-MM-DD), used instead of a month")
	cmd.Flags().String("end", "", "Last day of the range (YYYY-MM-DD), used instead of a month")
}

// resolvePeriod reads either a <YYYY-MM> argument or the --start/--end flags
func resolvePeriod(cmd *cobra.Command, args []string) (time.Time, time.Time, error) {
	startFlag, _ := cmd.Flags().GetString("start")
	endFlag, _ := cmd.Flags().GetString("end")

	if len(args) == 1 {
		if startFlag != "" || endFlag != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("give either a month or --start/--end, not both")
		}
		return model.ParseMonth(args[0])
	}

	if startFlag == "" || endFlag == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("a month (YYYY-MM) or both --start and --end are required")
	}

	start, err := model.ParseDate(startFlag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := model.ParseDate(endFlag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end %s is before --start %s", endFlag, startFlag)
	}
	return start, end, nil
}
