package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Info("Running migrations", zap.String("driver", app.Cfg.Database.Driver))

			if err := app.Database.RunMigrations(app.Ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println("\n✓ Database schema is up to date")
			return nil
		},
	}
}
