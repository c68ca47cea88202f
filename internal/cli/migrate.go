package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"adminpanel/config"
	"adminpanel/internal/repository/postgres"
)

// NewMigrateCmd creates the migrate command, which applies the embedded schema and exits.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  "Applies the embedded schema to DATABASE_URL. The statements are idempotent, so running it twice is safe.",
		Example: `  # Create or update the tables
  adminpanel migrate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger()

			db, err := postgres.Open(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("schema applied")
			cmd.Println("migrations applied")
			return nil
		},
	}
}
