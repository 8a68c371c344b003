// Package storage persists analysis runs and per-comment results. The
// in-memory analysis core never touches the database; persistence is an
// outer concern of the CLI and API layers.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun records one batch analysis over a document.
type AnalysisRun struct {
	ID            uuid.UUID `json:"id"`
	DocumentTitle string    `json:"document_title"`
	SectionCount  int       `json:"section_count"`
	CommentCount  int       `json:"comment_count"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// CommentResult is the persisted form of one comment's analysis.
type CommentResult struct {
	ID                 uuid.UUID `json:"id"`
	RunID              uuid.UUID `json:"run_id"`
	CommentID          int       `json:"comment_id"`
	Comment            string    `json:"comment"`
	SentimentLabel     string    `json:"sentiment_label"`
	BaseConfidence     float64   `json:"base_confidence"`
	AdjustedConfidence float64   `json:"adjusted_confidence"`
	AdjustmentRatio    float64   `json:"adjustment_ratio"`
	RelevanceScore     float64   `json:"relevance_score"`
	RelevanceCategory  string    `json:"relevance_category"`
	TargetSection      string    `json:"target_section"`
	IntentPrimary      string    `json:"intent_primary"`
	IntentConfidence   float64   `json:"intent_confidence"`
	Constructive       bool      `json:"constructive"`
	Degraded           bool      `json:"degraded"`
}
