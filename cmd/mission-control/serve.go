package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Guliveer/mission-control/internal/api"
	"github.com/Guliveer/mission-control/internal/config"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	Long:  `Starts the HTTP server. Every request re-reads its source; nothing is cached.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config, 127.0.0.1:3030)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.CLIOverrides{Listen: listenAddr})
	if err != nil {
		return err
	}

	logger := initLogger(cfg, os.Stdout)
	defer logger.Sync()

	logger.Info("Starting Mission Control",
		zap.String("version", version),
		zap.String("listen", cfg.Server.Listen),
		zap.String("root", cfg.Sources.Root))

	sources, _ := buildSources(cfg, logger)
	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           api.NewRouter(sources, version, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Cron listings may take up to the runner timeout.
		WriteTimeout: cfg.Sources.CronTimeout.Duration + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received signal, shutting down")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
	return nil
}
