package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-dashboard/config"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/bootstrap"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	Long: `Start the dashboard HTTP server.

Configuration comes from the environment (and a .env file when present).
DASHBOARD_BACKEND selects firestore, redis or postgres; when it is empty the
dashboard runs on an in-memory store seeded with the demo project.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat,
		zap.String("service", "project-dashboard"),
		zap.String("version", cfg.App.Version),
	)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	app, err := bootstrap.NewApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	runErr := make(chan error, 1)
	go func() { runErr <- app.Run(ctx) }()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("backend", app.Backend.Name()))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			cancel()
			<-runErr
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Stop the controller first so open event streams end.
	cancel()
	if err := <-runErr; err != nil {
		log.Error("dashboard stopped with error", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
