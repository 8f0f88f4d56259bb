package cli

import (
	"github.com/spf13/cobra"

	"github.com/juberis/reqtrack/internal/infrastructure/database/postgres"
)

// NewMigrateCommand creates the migrate subcommand tree.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(cfg.Database, cfg.Database.MigrationPath); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if err := postgres.RollbackMigrations(cfg.Database, cfg.Database.MigrationPath, steps); err != nil {
				return err
			}
			cmd.Println("migrations rolled back:", steps)
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationVersion(cfg.Database, cfg.Database.MigrationPath)
			if err != nil {
				return err
			}
			if version == 0 {
				cmd.Println("no migrations applied")
				return nil
			}
			cmd.Printf("version: %d dirty: %t\n", version, dirty)
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}
