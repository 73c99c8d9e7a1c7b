package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ondrasimku/gallery-service/internal/config"
	httphandler "github.com/ondrasimku/gallery-service/internal/http"
	"github.com/ondrasimku/gallery-service/internal/log"
	"github.com/ondrasimku/gallery-service/internal/storage/local"
)

var rootCmd = &cobra.Command{
	Use:           "gallery-service",
	Short:         "Uploads, stores and lists project images",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := log.NewLogger(cfg.LogLevel)
		slog.SetDefault(logger)

		return run(cmd.Context(), cfg, logger)
	},
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.UsesDefaultSecret() {
		logger.Warn("ADMIN_PASSWORD is not set, falling back to the default shared secret")
	}

	storage, err := local.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	router, err := httphandler.NewRouter(cfg, storage, logger)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting gallery service", "addr", cfg.HTTPAddr(), "storageDir", storage.Dir())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("gallery-service failed", "error", err)
		stop()
		os.Exit(1)
	}
}
