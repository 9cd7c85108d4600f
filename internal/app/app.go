// Package app provides application initialization and dependency wiring.
//
// App is the container that owns the database handle, the template store and
// the configuration. Setup builds it in dependency order and Close releases
// everything in reverse.
package app

import (
	"database/sql"
	"log/slog"

	"github.com/koopa0/risen/internal/config"
	"github.com/koopa0/risen/internal/store"
)

// App is the application container.
type App struct {
	Config *config.Config
	Store  *store.Store
	Logger *slog.Logger
	DB     *sql.DB
}

// Close releases all resources owned by the container. Safe to call on a
// partially initialized App.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("closing database", "error", err)
		return err
	}
	a.Logger.Info("database closed")
	return nil
}
