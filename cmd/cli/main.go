package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-scheduler/cmd/cli/commands"
	"github.com/jakechorley/staff-scheduler/internal/config"
	"github.com/jakechorley/staff-scheduler/pkg/db"
	"github.com/jakechorley/staff-scheduler/pkg/metrics"
	"github.com/jakechorley/staff-scheduler/pkg/postgres"
	"github.com/jakechorley/staff-scheduler/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Staff Scheduler CLI - Generate and assign restaurant shifts",
		Long: `A CLI tool that turns a demand forecast into monthly shifts, assigns staff to them
and notifies employees of their schedule.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	_ = rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.AssignEmployeesCmd(app))
	rootCmd.AddCommand(commands.ViewShiftsCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.AddEmployeeCmd(app))
	rootCmd.AddCommand(commands.ListEmployeesCmd(app))
	rootCmd.AddCommand(commands.GetEmployeeCmd(app))
	rootCmd.AddCommand(commands.UpdateEmployeeCmd(app))
	rootCmd.AddCommand(commands.DeleteEmployeeCmd(app))
	rootCmd.AddCommand(commands.LogPerformanceCmd(app))
	rootCmd.AddCommand(commands.ListPerformanceLogsCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRun is skipped when RunE fails
		shutdown()
		os.Exit(1)
	}
}

// initApp sets up logger, config, metrics and database
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Logger, err = logging.New(logging.Options{Env: env, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	if app.Cfg.MetricsFile != "" {
		app.Metrics = metrics.New()
	}

	app.Logger.Info("Connecting to database", zap.String("driver", app.Cfg.Database.Driver))
	app.Database, err = openDatabase(app.Ctx, app.Cfg.Database)
	if err != nil {
		return err
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

// openDatabase selects the store for the configured driver. The sqlite file is
// migrated on open; postgres needs an explicit migrate.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (db.Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		database, err := postgres.NewDB(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return database, nil

	case config.DriverSQLite:
		database, err := db.NewSQLiteDB(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := database.RunMigrations(ctx); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return database, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// shutdown writes metrics and releases the database and logger
func shutdown() {
	if app.Logger == nil {
		return
	}

	if app.Metrics != nil {
		if err := app.Metrics.WriteTextfile(app.Cfg.MetricsFile); err != nil {
			app.Logger.Warn("Failed to write metrics", zap.Error(err))
		}
	}

	if app.Database != nil {
		if err := app.Database.Close(); err != nil {
			app.Logger.Warn("Failed to close database", zap.Error(err))
		}
		app.Database = nil
	}

	_ = app.Logger.Sync()
}
