package cmd

import (
	"context"
	"fmt"
	"os"

	"assettracker/internal/config"
	"assettracker/internal/core/logger"
	"assettracker/internal/database"
	"assettracker/internal/database/migration"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run migrations manually.",
		Long:  `Applies all pending migrations to DATABASE_URL. Without --dir the migrations compiled into the binary are used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			migrationDir, _ := cmd.Flags().GetString("dir")
			if migrationDir == "" {
				migrationDir = cfg.MigrationsDir
			}

			dsn, err := database.ParseURL(cfg.DatabaseURL)
			if err != nil {
				return err
			}

			log := logger.ForEnv(cfg.Env)
			defer log.Sync()

			if err := migration.Migrate(dsn, migrationDir, true, log); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			return nil
		},
	}
	cmd.Flags().String("dir", "", "Directory containing <backend>/ migration folders (default: embedded migrations)")

	return cmd
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "assettracker",
		Short:         "Asset check-in/check-out tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newAssetsCmd())

	return rootCmd
}

func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
