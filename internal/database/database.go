// Package database owns the SQLite connection and schema for the risen
// server. The handle is opened once at startup, passed to the store, and
// closed on shutdown.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens a SQLite database connection at dbPath, creating the parent
// directory if needed.
func Open(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// OpenWithRetry opens and migrates the database with a bounded retry loop:
// attempts tries with delay between them, then gives up. This only guards
// startup; request-time storage failures surface through the tool handlers.
func OpenWithRetry(ctx context.Context, dbPath string, attempts int, delay time.Duration, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := Open(dbPath)
		if err == nil {
			if err = Migrate(db); err == nil {
				return db, nil
			}
			_ = db.Close()
		}
		lastErr = err
		logger.Error("database initialization failed",
			"attempt", attempt, "max_attempts", attempts, "error", err)

		if attempt == attempts {
			break
		}
		logger.Info("retrying database initialization", "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("database initialization canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database initialization failed after %d attempts: %w", attempts, lastErr)
}

// Migrate executes database migrations from the embedded filesystem.
func Migrate(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: Don't defer m.Close() because sqlite driver WithInstance doesn't
	// take over the DB connection but Close() might affect connection state

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
