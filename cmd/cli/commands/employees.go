package commands

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
	"github.com/jakechorley/staff-scheduler/pkg/core/services"
)

// AddEmployeeCmd creates the addEmployee command
func AddEmployeeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addEmployee <name> <email> <position> [hourly_rate]",
		Short: "Add an employee to the roster",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := model.ParsePosition(args[2])
			if err != nil {
				return err
			}

			employee := &model.Employee{
				Name:     args[0],
				Email:    args[1],
				Position: position,
			}

			if len(args) == 4 {
				rate, err := decimal.NewFromString(args[3])
				if err != nil {
					return fmt.Errorf("hourly_rate must be a number: %w", err)
				}
				employee.HourlyRate = &rate
			}

			app.Logger.Debug("addEmployee command",
				zap.String("name", employee.Name),
				zap.String("position", string(employee.Position)))

			if err := services.AddEmployee(app.Ctx, app.Database, app.Logger, employee); err != nil {
				return fmt.Errorf("failed to add employee: %w", err)
			}

			fmt.Printf("\n✓ Employee added: %s (%s) - %s\n", employee.Name, employee.ID, employee.Position)
			return nil
		},
	}
}

// ListEmployeesCmd creates the listEmployees command
func ListEmployeesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listEmployees",
		Short: "List the roster grouped by position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := app.Database.GetEmployees(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}

			app.Logger.Info("Employees fetched successfully", zap.Int("count", len(employees)))

			byPosition := make(map[model.Position][]model.Employee)
			for _, e := range employees {
				byPosition[e.Position] = append(byPosition[e.Position], e)
			}

			fmt.Printf("\nFound %d employees:\n", len(employees))
			for _, position := range model.Positions {
				group := byPosition[position]
				if len(group) == 0 {
					continue
				}
				sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })

				fmt.Printf("\n%s (%d)\n", position, len(group))
				for _, e := range group {
					fmt.Printf("  - %s (%s) - %s - %s\n", e.Name, e.ID, orNone(e.Email), formatRate(e.HourlyRate))
				}
			}
			fmt.Println()

			return nil
		},
	}
}

// GetEmployeeCmd creates the getEmployee command
func GetEmployeeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "getEmployee <id>",
		Short: "Show an employee and their performance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := services.GetEmployeeProfile(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			e := profile.Employee
			fmt.Printf("\n%s (%s)\n", e.Name, e.ID)
			fmt.Printf("Position:   %s\n", e.Position)
			fmt.Printf("Email:      %s\n", orNone(e.Email))
			fmt.Printf("Rate:       %s\n", formatRate(e.HourlyRate))

			if len(profile.PerformanceLogs) == 0 {
				fmt.Printf("\nNo performance logs recorded.\n\n")
				return nil
			}

			fmt.Printf("\nPerformance logs (%d):\n", len(profile.PerformanceLogs))
			for _, l := range profile.PerformanceLogs {
				fmt.Printf("  - %s  %s  %s\n", l.LogDate.Format(model.DateLayout), formatRating(l.Rating), l.Notes)
			}
			fmt.Println()
			return nil
		},
	}
}

// UpdateEmployeeCmd creates the updateEmployee command
func UpdateEmployeeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateEmployee <id>",
		Short: "Change an employee's name, email, position or hourly rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := employeeUpdateFromFlags(cmd)
			if err != nil {
				return err
			}

			employee, err := services.UpdateEmployee(app.Ctx, app.Database, app.Logger, args[0], update)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Employee updated: %s (%s) - %s - %s - %s\n",
				employee.Name, employee.ID, employee.Position, orNone(employee.Email), formatRate(employee.HourlyRate))
			return nil
		},
	}

	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("email", "", "New email (empty string removes it)")
	cmd.Flags().String("position", "", "New position")
	cmd.Flags().String("rate", "", "New hourly rate")
	cmd.Flags().Bool("clear-rate", false, "Remove the hourly rate")

	return cmd
}

// DeleteEmployeeCmd creates the deleteEmployee command
func DeleteEmployeeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteEmployee <id>",
		Short: "Remove an employee, their performance logs and their shift assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			released, err := services.DeleteEmployee(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Employee %s deleted\n", args[0])
			if released > 0 {
				fmt.Printf("⚠️  %d assigned shifts are unassigned again. Run assignEmployees to refill them.\n", released)
			}
			return nil
		},
	}
}

// employeeUpdateFromFlags only sets the fields whose flags were given
func employeeUpdateFromFlags(cmd *cobra.Command) (services.EmployeeUpdate, error) {
	var update services.EmployeeUpdate
	flags := cmd.Flags()

	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		update.Name = &name
	}
	if flags.Changed("email") {
		email, _ := flags.GetString("email")
		update.Email = &email
	}
	if flags.Changed("position") {
		raw, _ := flags.GetString("position")
		position, err := model.ParsePosition(raw)
		if err != nil {
			return update, err
		}
		update.Position = &position
	}
	if flags.Changed("rate") {
		raw, _ := flags.GetString("rate")
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return update, fmt.Errorf("rate must be a number: %w", err)
		}
		update.HourlyRate = &rate
	}
	update.ClearRate, _ = flags.GetBool("clear-rate")

	if update == (services.EmployeeUpdate{}) {
		return update, fmt.Errorf("nothing to update: pass at least one of --name, --email, --position, --rate or --clear-rate")
	}
	return update, nil
}

func formatRate(rate *decimal.Decimal) string {
	if rate == nil {
		return "no rate"
	}
	return rate.StringFixed(2) + "/h"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
