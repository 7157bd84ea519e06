package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"assettracker/internal/config"
	"assettracker/internal/core/container"
	"assettracker/internal/core/logger"
	"assettracker/internal/core/routes"
	"assettracker/internal/database"
	"assettracker/internal/database/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), config.New())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.ForEnv(cfg.Env)
	defer log.Sync()

	dsn, err := database.ParseURL(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migration.Migrate(dsn, cfg.MigrationsDir, false, log); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	app, err := container.NewAppContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Failed to close resources", zap.Error(err))
		}
	}()

	if !cfg.AuthEnabled() {
		log.Warn("JWT_SECRET not set, mutating routes are not protected")
	}

	server := &http.Server{
		Addr:              cfg.Host,
		Handler:           routes.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", cfg.Host), zap.String("version", cfg.Version))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
