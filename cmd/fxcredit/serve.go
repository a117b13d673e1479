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

	"github.com/efreitasn/fxcredit/internal/config"
	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/efreitasn/fxcredit/internal/handler"
	"github.com/efreitasn/fxcredit/internal/ledger"
	"github.com/efreitasn/fxcredit/internal/loader"
	"github.com/efreitasn/fxcredit/internal/service"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "optional .env file loaded before reading the environment")

	return cmd
}

func runServe(envFile string) error {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	snap := loadSnapshot(cfg.ConfigDir, logger)

	svc := service.NewSimulationService(snap, service.Options{
		MaxSimulations: cfg.MaxSimulations,
		OrderLogLimit:  cfg.OrderLogLimit,
		SimulationTTL:  cfg.SimulationTTL,
		Audit: ledger.AuditOptions{
			StaleAfter:         cfg.StaleAfter,
			UtilizationWarning: cfg.UtilizationWarning,
		},
	}, logger)

	router := handler.NewRouter(svc, logger)

	// Start simulation expiry with cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	service.NewExpirer(cfg.ExpiryInterval, svc).Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for SIGINT/SIGTERM or a listener failure.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}

	// Graceful shutdown: stop HTTP server, cancel context (stops expiry goroutine).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
	return nil
}

// loadSnapshot loads the YAML directory. A directory that cannot be read
// yields an empty snapshot; one that reads but fails integrity checks is
// served as loaded, with every problem logged.
func loadSnapshot(dir string, logger *slog.Logger) *domain.Snapshot {
	snap, err := loader.LoadDir(dir)

	var integrityErr *loader.IntegrityError
	switch {
	case err == nil:
		logger.Info("configuration loaded",
			slog.String("dir", dir),
			slog.Int("prime_brokers", len(snap.PrimeBrokers)),
			slog.Int("customers", len(snap.Customers)),
			slog.Int("sessions", len(snap.Sessions)),
		)
		return snap
	case errors.As(err, &integrityErr):
		for _, p := range integrityErr.Problems {
			logger.Warn("configuration problem", slog.String("dir", dir), slog.String("problem", p))
		}
		return snap
	default:
		logger.Error("no data available", slog.String("dir", dir), slog.String("error", err.Error()))
		return &domain.Snapshot{}
	}
}
