// Package analysis composes section extraction, relevance scoring, intent
// classification, and sentiment adjustment into per-comment results.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civiclens/feedback-engine/internal/document"
	"github.com/civiclens/feedback-engine/internal/intent"
	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/relevance"
	"github.com/civiclens/feedback-engine/internal/sentiment"
)

// ErrEmptyDocument is returned when a document has no usable text.
var ErrEmptyDocument = errors.New("document text is empty")

// DocumentContext is the derived per-comment view of the loaded document.
type DocumentContext struct {
	IsRelevant           bool   `json:"is_relevant"`
	TargetSectionTitle   string `json:"target_section_title,omitempty"`
	ConstructiveFeedback bool   `json:"constructive_feedback"`
}

// Result aggregates every analysis stage for one comment. Comment IDs are
// 1-based in input order. Degraded marks results whose sentiment fell back
// to the neutral default because the provider failed.
type Result struct {
	CommentID         int                `json:"comment_id"`
	Comment           string             `json:"comment"`
	BaseSentiment     sentiment.Sentiment `json:"base_sentiment"`
	AdjustedSentiment sentiment.Adjusted `json:"adjusted_sentiment"`
	Relevance         relevance.Result   `json:"relevance"`
	Intent            intent.Result      `json:"intent"`
	DocumentContext   DocumentContext    `json:"document_context"`
	Degraded          bool               `json:"degraded,omitempty"`
}

// SessionConfig holds analysis session settings.
type SessionConfig struct {
	MaxWorkers      int
	BatchTimeout    time.Duration
	MinSectionChars int
	MaxVocabulary   int
}

// DefaultSessionConfig returns session defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxWorkers:      4,
		BatchTimeout:    5 * time.Minute,
		MinSectionChars: 50,
		MaxVocabulary:   2000,
	}
}

// Session owns the loaded document, its relevance index, and the analysis
// configuration. The document/index pair is replaced atomically under a
// write lock; scoring takes read locks, so a rebuild never races an
// in-flight score.
type Session struct {
	mu sync.RWMutex

	logger     *observability.Logger
	provider   sentiment.Provider
	extractor  *document.Extractor
	vectorizer *relevance.Vectorizer
	classifier *intent.Classifier
	scoreCache *ScoreCache

	doc          *document.Document
	index        *relevance.Index
	indexVersion uuid.UUID

	cfg SessionConfig
}

// NewSession creates an analysis session. The provider may not be nil;
// scoreCache may be nil to disable relevance caching.
func NewSession(logger *observability.Logger, provider sentiment.Provider, scoreCache *ScoreCache, cfg SessionConfig) *Session {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 5 * time.Minute
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Session{
		logger:     logger.WithComponent("analysis"),
		provider:   provider,
		extractor:  document.NewExtractor(document.ExtractorConfig{MinSectionChars: cfg.MinSectionChars}),
		vectorizer: relevance.NewVectorizer(relevance.VectorizerConfig{MaxTerms: cfg.MaxVocabulary}),
		classifier: intent.NewClassifier(),
		scoreCache: scoreCache,
		cfg:        cfg,
	}
}

// SetDocument replaces the loaded document and rebuilds the relevance index
// from scratch. Returns the number of extracted sections. Idempotent:
// loading identical text twice produces an index with identical sections
// and scores. A document with no usable text is a hard error and leaves
// any prior document in place.
func (s *Session) SetDocument(ctx context.Context, text, title string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyDocument
	}
	if title == "" {
		title = "Main Document"
	}

	sections := s.extractor.ExtractSections(text)
	if len(sections) == 0 {
		return 0, fmt.Errorf("no sections extracted from %q", title)
	}
	index := s.vectorizer.BuildIndex(sections)

	s.mu.Lock()
	s.doc = &document.Document{Title: title, Text: text, Sections: sections}
	s.index = index
	s.indexVersion = uuid.New()
	s.mu.Unlock()

	if s.scoreCache != nil {
		if err := s.scoreCache.InvalidateAll(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate relevance cache")
		}
	}

	s.logger.Info().
		Str("title", title).
		Int("sections", len(sections)).
		Int("vocabulary", index.VocabularySize()).
		Msg("document loaded")

	return len(sections), nil
}

// Document returns the currently loaded document, or nil.
func (s *Session) Document() *document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// ScoreRelevance scores text against the loaded document. With no document
// loaded it returns the Unknown zero-score result rather than failing.
func (s *Session) ScoreRelevance(ctx context.Context, text string) relevance.Result {
	s.mu.RLock()
	index := s.index
	version := s.indexVersion
	s.mu.RUnlock()

	if s.scoreCache != nil && index != nil {
		if cached, ok := s.scoreCache.Get(ctx, version, text); ok {
			return cached
		}
	}

	result := index.Score(text)

	if s.scoreCache != nil && index != nil {
		if err := s.scoreCache.Set(ctx, version, text, result); err != nil {
			s.logger.Debug().Err(err).Msg("failed to cache relevance result")
		}
	}

	return result
}

// ClassifyIntent classifies a comment's intent category.
func (s *Session) ClassifyIntent(text string) intent.Result {
	return s.classifier.Classify(text)
}

// AnalyzeComment runs the full pipeline on one comment: base sentiment,
// relevance, intent, and context adjustment. Provider failures degrade to
// the neutral default instead of returning an error.
func (s *Session) AnalyzeComment(ctx context.Context, text string) Result {
	base, err := s.provider.Classify(ctx, text)
	degraded := false
	if err != nil {
		s.logger.Warn().Err(err).Msg("sentiment provider failed; using degraded default")
		base = sentiment.Degraded()
		degraded = true
	}

	rel := s.ScoreRelevance(ctx, text)
	in := s.classifier.Classify(text)
	adjusted := sentiment.Adjust(base, rel.Score, in.Primary)

	targetTitle := ""
	if rel.Section != nil {
		targetTitle = rel.Section.Title
	}

	return Result{
		Comment:           text,
		BaseSentiment:     base,
		AdjustedSentiment: adjusted,
		Relevance:         rel,
		Intent:            in,
		DocumentContext: DocumentContext{
			IsRelevant:           rel.Score > 0.3,
			TargetSectionTitle:   targetTitle,
			ConstructiveFeedback: in.Constructive,
		},
		Degraded: degraded,
	}
}

// Summarize produces a summary of the given text through the provider,
// falling back to a truncated extract when the provider fails.
func (s *Session) Summarize(ctx context.Context, text string, maxWords int) string {
	summary, err := s.provider.Summarize(ctx, text, maxWords)
	if err != nil {
		s.logger.Warn().Err(err).Msg("summarizer failed; using extractive fallback")
		return extractiveFallback(text, 3)
	}
	return summary
}

// extractiveFallback returns the first sentences of the text.
func extractiveFallback(text string, sentences int) string {
	split := document.SplitSentences(sentiment.CleanText(text))
	if len(split) > sentences {
		split = split[:sentences]
	}
	return strings.Join(split, " ")
}
