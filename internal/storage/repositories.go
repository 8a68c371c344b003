package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates a missing record.
var ErrNotFound = errors.New("record not found")

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Schema is portable across sqlite and postgres.
const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	document_title TEXT NOT NULL,
	section_count INTEGER NOT NULL,
	comment_count INTEGER NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS comment_results (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES analysis_runs(id),
	comment_id INTEGER NOT NULL,
	comment TEXT NOT NULL,
	sentiment_label TEXT NOT NULL,
	base_confidence REAL NOT NULL,
	adjusted_confidence REAL NOT NULL,
	adjustment_ratio REAL NOT NULL,
	relevance_score REAL NOT NULL,
	relevance_category TEXT NOT NULL,
	target_section TEXT NOT NULL DEFAULT '',
	intent_primary TEXT NOT NULL,
	intent_confidence REAL NOT NULL,
	constructive BOOLEAN NOT NULL,
	degraded BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comment_results_run ON comment_results(run_id);
`

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// RunRepository handles analysis-run CRUD operations.
type RunRepository struct {
	db DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new analysis run.
func (r *RunRepository) Create(ctx context.Context, run *AnalysisRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO analysis_runs (id, document_title, section_count, comment_count, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID.String(), run.DocumentTitle, run.SectionCount,
		run.CommentCount, run.Summary, run.CreatedAt,
	)
	return err
}

// GetByID retrieves a run by ID.
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*AnalysisRun, error) {
	query := `
		SELECT id, document_title, section_count, comment_count, summary, created_at
		FROM analysis_runs WHERE id = $1
	`
	run := &AnalysisRun{}
	var rawID string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &run.DocumentTitle, &run.SectionCount,
		&run.CommentCount, &run.Summary, &run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.ID, err = uuid.Parse(rawID)
	return run, err
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, document_title, section_count, comment_count, summary, created_at
		FROM analysis_runs ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		var rawID string
		if err := rows.Scan(&rawID, &run.DocumentTitle, &run.SectionCount,
			&run.CommentCount, &run.Summary, &run.CreatedAt); err != nil {
			return nil, err
		}
		if run.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ResultRepository handles persisted comment results.
type ResultRepository struct {
	db DB
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert stores one comment result.
func (r *ResultRepository) Insert(ctx context.Context, result *CommentResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}

	query := `
		INSERT INTO comment_results (
			id, run_id, comment_id, comment, sentiment_label,
			base_confidence, adjusted_confidence, adjustment_ratio,
			relevance_score, relevance_category, target_section,
			intent_primary, intent_confidence, constructive, degraded
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		result.ID.String(), result.RunID.String(), result.CommentID, result.Comment,
		result.SentimentLabel, result.BaseConfidence, result.AdjustedConfidence,
		result.AdjustmentRatio, result.RelevanceScore, result.RelevanceCategory,
		result.TargetSection, result.IntentPrimary, result.IntentConfidence,
		result.Constructive, result.Degraded,
	)
	return err
}

// InsertBatch stores a batch of comment results for one run.
func (r *ResultRepository) InsertBatch(ctx context.Context, runID uuid.UUID, results []CommentResult) error {
	for i := range results {
		results[i].RunID = runID
		if err := r.Insert(ctx, &results[i]); err != nil {
			return fmt.Errorf("insert result %d: %w", results[i].CommentID, err)
		}
	}
	return nil
}

// ListByRun returns all results for a run ordered by comment ID.
func (r *ResultRepository) ListByRun(ctx context.Context, runID uuid.UUID) ([]CommentResult, error) {
	query := `
		SELECT id, run_id, comment_id, comment, sentiment_label,
			base_confidence, adjusted_confidence, adjustment_ratio,
			relevance_score, relevance_category, target_section,
			intent_primary, intent_confidence, constructive, degraded
		FROM comment_results WHERE run_id = $1 ORDER BY comment_id
	`
	rows, err := r.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []CommentResult
	for rows.Next() {
		var res CommentResult
		var rawID, rawRunID string
		if err := rows.Scan(&rawID, &rawRunID, &res.CommentID, &res.Comment,
			&res.SentimentLabel, &res.BaseConfidence, &res.AdjustedConfidence,
			&res.AdjustmentRatio, &res.RelevanceScore, &res.RelevanceCategory,
			&res.TargetSection, &res.IntentPrimary, &res.IntentConfidence,
			&res.Constructive, &res.Degraded); err != nil {
			return nil, err
		}
		if res.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		if res.RunID, err = uuid.Parse(rawRunID); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
