// Package store implements template and experiment persistence over SQLite.
//
// Serialized sequence fields (steps, variables, tags) are validated here, at
// the storage boundary: reads used for scoring, suggestion and rendering fail
// on malformed rows, while listing reads fall back to empty metadata so a
// single bad row cannot break a whole search page.
//
// Store is not a pool; it wraps the single database handle opened at startup.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koopa0/risen/internal/config"
	"github.com/koopa0/risen/internal/risen"
)

// Store manages template and experiment rows.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Store over an open database handle.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// templateColumns is the scan order used by scanTemplate.
const templateColumns = `id, name, COALESCE(description, ''), COALESCE(role, ''),
	COALESCE(instructions, ''), COALESCE(steps, ''), COALESCE(expectations, ''),
	COALESCE(narrowing, ''), COALESCE(variables, ''), COALESCE(tags, ''),
	uses, total_rating, rating_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTemplate reads one template row. In strict mode malformed steps or
// variables propagate as errors; in either mode malformed tags degrade to an
// empty list since tags are display metadata.
func (s *Store) scanTemplate(row rowScanner, strict bool) (*risen.Template, error) {
	var t risen.Template
	var rawSteps, rawVars, rawTags string

	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Role,
		&t.Instructions, &rawSteps, &t.Expectations,
		&t.Narrowing, &rawVars, &rawTags,
		&t.Uses, &t.TotalRating, &t.RatingCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Steps, err = decodeList(rawSteps)
	if err != nil {
		if strict {
			return nil, fmt.Errorf("template %s steps: %w", t.ID, err)
		}
		s.logger.Warn("malformed steps in stored template", "id", t.ID, "error", err)
		t.Steps = nil
	}

	t.Variables, err = decodeList(rawVars)
	if err != nil {
		if strict {
			return nil, fmt.Errorf("template %s variables: %w", t.ID, err)
		}
		s.logger.Warn("malformed variables in stored template", "id", t.ID, "error", err)
		t.Variables = nil
	}

	t.Tags, err = decodeList(rawTags)
	if err != nil {
		s.logger.Warn("malformed tags in stored template", "id", t.ID, "error", err)
		t.Tags = nil
	}

	return &t, nil
}

// Create inserts a new template with all counters zeroed and returns the
// generated id.
func (s *Store) Create(ctx context.Context, t risen.Template) (string, error) {
	steps, err := encodeList(t.Steps)
	if err != nil {
		return "", err
	}
	vars, err := encodeList(t.Variables)
	if err != nil {
		return "", err
	}
	tags, err := encodeList(t.Tags)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, description, role, instructions, steps,
		   expectations, narrowing, variables, tags,
		   uses, total_rating, rating_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?)`,
		id, t.Name, t.Description, t.Role, t.Instructions, steps,
		t.Expectations, t.Narrowing, vars, tags, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create template: %w", err)
	}

	return id, nil
}

// GetByID loads one template. Malformed steps or variables are an error here
// because callers feed the result to scoring and rendering.
func (s *Store) GetByID(ctx context.Context, id string) (*risen.Template, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM templates WHERE id = ?", id)

	t, err := s.scanTemplate(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

// FindByName returns the template with the given name, used for idempotent
// default seeding.
func (s *Store) FindByName(ctx context.Context, name string) (*risen.Template, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM templates WHERE name = ?", name)

	t, err := s.scanTemplate(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return t, nil
}

// SearchFilter selects templates. Zero values disable the corresponding
// filter. Offset and Limit are clamped; Limit <= 0 uses the search default.
type SearchFilter struct {
	Query     string
	Tags      []string
	MinRating float64
	Offset    int
	Limit     int
}

// SearchResult is one page of matching templates plus the pre-pagination
// total.
type SearchResult struct {
	Templates  []risen.Template
	TotalCount int
	Offset     int
	Limit      int
}

// Search runs a filtered, paginated template listing ordered by uses then
// rating count. TotalCount reflects the filter before pagination.
//
// Tag filtering matches each tag as a quoted substring against the
// serialized tag list. This can false-positive on tags containing another
// tag as a JSON-quoted substring; it mirrors the documented LIKE-based
// behavior rather than a structural membership test.
func (s *Store) Search(ctx context.Context, f SearchFilter) (*SearchResult, error) {
	offset, limit := clampPage(f.Offset, f.Limit, config.DefaultSearchLimit, config.MaxSearchLimit)

	where := " WHERE 1=1"
	var args []any

	if f.Query != "" {
		where += " AND (name LIKE ? OR description LIKE ? OR tags LIKE ?)"
		term := "%" + f.Query + "%"
		args = append(args, term, term, term)
	}

	if len(f.Tags) > 0 {
		conds := make([]string, len(f.Tags))
		for i, tag := range f.Tags {
			conds[i] = "tags LIKE ?"
			args = append(args, `%"`+tag+`"%`)
		}
		where += " AND (" + strings.Join(conds, " OR ") + ")"
	}

	if f.MinRating > 0 {
		// NULLIF keeps unrated rows out: the division is NULL and the
		// comparison fails.
		where += " AND (total_rating / NULLIF(rating_count, 0)) >= ?"
		args = append(args, f.MinRating)
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM templates"+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	// The id tiebreak keeps page boundaries stable across equal-ranked rows.
	query := "SELECT " + templateColumns + " FROM templates" + where +
		" ORDER BY uses DESC, rating_count DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search templates: %w", err)
	}
	defer rows.Close()

	result := &SearchResult{TotalCount: total, Offset: offset, Limit: limit}
	for rows.Next() {
		t, err := s.scanTemplate(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		result.Templates = append(result.Templates, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	return result, nil
}

// IncrementUse atomically increments the template's use counter.
func (s *Store) IncrementUse(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE templates SET uses = uses + 1, updated_at = ? WHERE id = ?",
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment uses: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// RecordRating adds rating to the template's aggregate and returns the new
// derived average and count. The increment and the follow-up read run in one
// transaction so a concurrent rating cannot slip between them.
func (s *Store) RecordRating(ctx context.Context, id string, rating int) (avg float64, count int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE templates
		 SET total_rating = total_rating + ?, rating_count = rating_count + 1, updated_at = ?
		 WHERE id = ?`,
		rating, time.Now(), id)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to record rating: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		err = ErrTemplateNotFound
		return 0, 0, err
	}

	var total int64
	err = tx.QueryRowContext(ctx,
		"SELECT total_rating, rating_count FROM templates WHERE id = ?", id).
		Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read rating aggregate: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit rating: %w", err)
	}

	return float64(total) / float64(count), count, nil
}

// InsertExperiment appends an experiment row and returns its id.
func (s *Store) InsertExperiment(ctx context.Context, e risen.Experiment) (string, error) {
	vars, err := encodeMap(e.VariablesUsed)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO experiments (id, template_id, executed_prompt, variables_used,
		   ai_model, response, rating, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.TemplateID, e.ExecutedPrompt, vars,
		e.AIModel, e.Response, e.Rating, e.Notes, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to insert experiment: %w", err)
	}

	return id, nil
}

// ExperimentPage is one page of a template's experiments, newest first.
type ExperimentPage struct {
	Experiments []risen.Experiment
	TotalCount  int
	Offset      int
	Limit       int
}

// ExperimentsFor lists a template's experiments ordered by creation time
// descending, with clamped pagination.
func (s *Store) ExperimentsFor(ctx context.Context, templateID string, offset, limit int) (*ExperimentPage, error) {
	offset, limit = clampPage(offset, limit, config.DefaultExperimentLimit, config.MaxExperimentLimit)

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM experiments WHERE template_id = ?", templateID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count experiments: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, template_id, COALESCE(executed_prompt, ''), COALESCE(variables_used, ''),
		   COALESCE(ai_model, ''), COALESCE(response, ''), COALESCE(rating, 0),
		   COALESCE(notes, ''), created_at
		 FROM experiments WHERE template_id = ?
		 ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		templateID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	page := &ExperimentPage{TotalCount: total, Offset: offset, Limit: limit}
	for rows.Next() {
		var e risen.Experiment
		var rawVars string
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.ExecutedPrompt, &rawVars,
			&e.AIModel, &e.Response, &e.Rating, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		if e.VariablesUsed, err = decodeMap(rawVars); err != nil {
			s.logger.Warn("malformed variables_used in experiment", "id", e.ID, "error", err)
			e.VariablesUsed = nil
		}
		page.Experiments = append(page.Experiments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read experiments: %w", err)
	}

	return page, nil
}

// clampPage bounds pagination parameters: offset >= 0, limit in [1, max],
// non-positive limit falls back to def.
func clampPage(offset, limit, def, max int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return offset, limit
}
