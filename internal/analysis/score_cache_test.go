package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/feedback-engine/internal/cache"
	"github.com/civiclens/feedback-engine/internal/document"
	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/relevance"
)

func TestScoreCache_RoundTrip(t *testing.T) {
	sc := NewScoreCache(cache.NewMemoryClient(10), observability.Nop(), time.Minute)
	ctx := context.Background()
	version := uuid.New()

	stored := relevance.Result{
		Score:        0.62,
		Section:      &document.Section{ID: "2", Title: "Section 2"},
		SectionIndex: 1,
		Category:     relevance.CategoryModeratelyRelevant,
		Similarities: []float64{0.1, 0.62},
	}
	require.NoError(t, sc.Set(ctx, version, "some comment", stored))

	got, ok := sc.Get(ctx, version, "some comment")
	require.True(t, ok)
	assert.Equal(t, stored.Score, got.Score)
	assert.Equal(t, stored.SectionIndex, got.SectionIndex)
	assert.Equal(t, stored.Category, got.Category)
	require.NotNil(t, got.Section)
	assert.Equal(t, "Section 2", got.Section.Title)
}

func TestScoreCache_MissOnDifferentVersion(t *testing.T) {
	sc := NewScoreCache(cache.NewMemoryClient(10), observability.Nop(), time.Minute)
	ctx := context.Background()

	require.NoError(t, sc.Set(ctx, uuid.New(), "comment", relevance.Result{Score: 0.5}))

	_, ok := sc.Get(ctx, uuid.New(), "comment")
	assert.False(t, ok)
}

func TestScoreCache_InvalidateAll(t *testing.T) {
	sc := NewScoreCache(cache.NewMemoryClient(10), observability.Nop(), time.Minute)
	ctx := context.Background()
	version := uuid.New()

	require.NoError(t, sc.Set(ctx, version, "comment", relevance.Result{Score: 0.5}))
	require.NoError(t, sc.InvalidateAll(ctx))

	_, ok := sc.Get(ctx, version, "comment")
	assert.False(t, ok)
}

func TestScoreCache_NilSafe(t *testing.T) {
	var sc *ScoreCache
	ctx := context.Background()

	_, ok := sc.Get(ctx, uuid.New(), "comment")
	assert.False(t, ok)
	assert.NoError(t, sc.Set(ctx, uuid.New(), "comment", relevance.Result{}))
	assert.NoError(t, sc.InvalidateAll(ctx))
}
