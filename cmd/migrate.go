package cmd

import (
	"fmt"

	"lead-sync/core/config"
	"lead-sync/core/database"
	"lead-sync/core/logger"
	"lead-sync/feature/leads"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the leads table.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the leads table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		store := leads.NewStore(db)
		if err := store.Migrate(); err != nil {
			return err
		}
		if err := store.CheckSchema(); err != nil {
			return err
		}

		l.Info("Leads table ready",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
