// Package health runs startup diagnostics against the database and the
// process, checked against the configured health thresholds.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/koopa0/risen/internal/config"
)

// Check is the outcome of a single diagnostic probe.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Checker probes the database and process health.
type Checker struct {
	db  *sql.DB
	cfg *config.Config
}

// NewChecker creates a checker over an open database handle.
func NewChecker(db *sql.DB, cfg *config.Config) *Checker {
	return &Checker{db: db, cfg: cfg}
}

// Run executes all probes and returns their results. A failing probe does
// not stop the remaining ones.
func (c *Checker) Run(ctx context.Context) []Check {
	return []Check{
		c.pingDatabase(ctx),
		c.queryResponseTime(ctx),
		c.databaseSize(),
		c.memoryUsage(),
	}
}

// Healthy reports whether every check passed.
func Healthy(checks []Check) bool {
	for _, ch := range checks {
		if !ch.OK {
			return false
		}
	}
	return true
}

func (c *Checker) pingDatabase(ctx context.Context) Check {
	if err := c.db.PingContext(ctx); err != nil {
		return Check{Name: "database connection", Detail: err.Error()}
	}
	return Check{Name: "database connection", OK: true, Detail: "reachable"}
}

// queryResponseTime times a representative query against the configured
// response ceiling.
func (c *Checker) queryResponseTime(ctx context.Context) Check {
	const name = "query response time"

	start := time.Now()
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&n); err != nil {
		return Check{Name: name, Detail: err.Error()}
	}
	elapsed := time.Since(start)

	limit := time.Duration(c.cfg.MaxHealthyResponseTimeMS) * time.Millisecond
	detail := fmt.Sprintf("%s for %d templates (limit %s)", elapsed.Round(time.Millisecond), n, limit)
	return Check{Name: name, OK: elapsed <= limit, Detail: detail}
}

func (c *Checker) databaseSize() Check {
	const name = "database size"

	info, err := os.Stat(c.cfg.DBPath)
	if err != nil {
		return Check{Name: name, Detail: err.Error()}
	}
	sizeKB := info.Size() / 1024
	detail := fmt.Sprintf("%d KB (limit %d KB)", sizeKB, c.cfg.MaxHealthyDBSizeKB)
	return Check{Name: name, OK: sizeKB <= int64(c.cfg.MaxHealthyDBSizeKB), Detail: detail}
}

func (c *Checker) memoryUsage() Check {
	const name = "memory usage"

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	usedMB := m.Alloc / (1024 * 1024)
	detail := fmt.Sprintf("%d MB allocated (limit %d MB)", usedMB, c.cfg.MaxHealthyMemoryMB)
	return Check{Name: name, OK: usedMB <= uint64(c.cfg.MaxHealthyMemoryMB), Detail: detail}
}
