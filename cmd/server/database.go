package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/phrazzld/sird-api/internal/config"
	"github.com/phrazzld/sird-api/internal/platform/postgres"
	"github.com/phrazzld/sird-api/internal/redact"
	"github.com/sethvargo/go-retry"
)

// Connection retry policy used while the database is still starting.
const (
	pingBaseDelay  = 500 * time.Millisecond
	pingMaxRetries = 5
	pingTimeout    = 5 * time.Second
)

// setupAppDatabase opens the postgres pool and waits until it answers a ping.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := pingWithRetry(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Database connection established")
	return db, nil
}

// pinger is the part of *sql.DB used to check connectivity.
type pinger interface {
	PingContext(ctx context.Context) error
}

// pingWithRetry pings db with exponential backoff.
func pingWithRetry(ctx context.Context, db pinger, logger *slog.Logger) error {
	backoff := retry.WithMaxRetries(pingMaxRetries, retry.NewExponential(pingBaseDelay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("database not ready",
				"attempt", attempt,
				"error", redact.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}
	return nil
}

// handleMigrations runs a goose command against the configured database.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %q database driver, got %q",
			config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return postgres.Migrate(ctx, db, command, logger)
}
