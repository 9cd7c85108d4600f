package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/koopa0/risen/internal/config"
	"github.com/koopa0/risen/internal/database"
	"github.com/koopa0/risen/internal/store"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup, call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	db, err := provideDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DB = db

	a.Store = store.New(db, logger)

	if err := provideSeedData(ctx, a.Store, logger); err != nil {
		return nil, err
	}

	return a, nil
}

// provideDatabase opens the SQLite database and brings the schema up to
// date. Transient open failures are retried with a fixed delay.
func provideDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := database.OpenWithRetry(ctx, cfg.DBPath,
		config.ConnectAttempts, config.ConnectRetryDelay, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// provideSeedData installs the stock templates on first run. Existing
// templates with the same names are left untouched.
func provideSeedData(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	created, skipped, err := st.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed default templates: %w", err)
	}
	if created > 0 {
		logger.Info("seeded default templates", "created", created, "skipped", skipped)
	}
	return nil
}
