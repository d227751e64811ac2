package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"caixa/internal/config"
	applog "caixa/internal/log"
	"caixa/internal/services"
	"caixa/internal/storage"
	"caixa/internal/worker"
)

// rollover-worker keeps the current month populated: on every tick it
// attempts to clone the previous month's active fixed expenses. The
// attempt is idempotent; once the month is populated further ticks are
// no-ops.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentRollover)
	applog.SetDefault(logger)

	logger.Info("Starting rollover-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	rollover := services.NewRolloverService(repo, repo)
	rolloverWorker := worker.NewRolloverWorker(rollover, cfg.RolloverInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Rollover worker configured",
		"interval", cfg.RolloverInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	if err := rolloverWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Rollover worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Rollover-worker shutdown complete")
}
