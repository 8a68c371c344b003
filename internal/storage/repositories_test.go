package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), OpenOptions{
		Driver: "sqlite",
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{Driver: "mysql", DSN: ""})
	assert.Error(t, err)
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	run := &AnalysisRun{
		DocumentTitle: "Companies Amendment Bill",
		SectionCount:  12,
		CommentCount:  40,
		Summary:       "Analysis of 40 comments",
	}
	require.NoError(t, repo.Create(ctx, run))
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "Companies Amendment Bill", got.DocumentTitle)
	assert.Equal(t, 12, got.SectionCount)
	assert.Equal(t, 40, got.CommentCount)
}

func TestRunRepository_GetMissing(t *testing.T) {
	db := testDB(t)
	repo := NewRunRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	db := testDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	older := &AnalysisRun{DocumentTitle: "Older", CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &AnalysisRun{DocumentTitle: "Newer", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	runs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Newer", runs[0].DocumentTitle)
	assert.Equal(t, "Older", runs[1].DocumentTitle)
}

func TestRunRepository_ListLimit(t *testing.T) {
	db := testDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &AnalysisRun{DocumentTitle: "Run"}))
	}

	runs, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestResultRepository_InsertBatchAndList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	run := &AnalysisRun{DocumentTitle: "Bill"}
	require.NoError(t, NewRunRepository(db).Create(ctx, run))

	repo := NewResultRepository(db)
	batch := []CommentResult{
		{
			CommentID: 2, Comment: "second", SentimentLabel: "NEUTRAL",
			BaseConfidence: 0.5, AdjustedConfidence: 0.4, AdjustmentRatio: 0.8,
			RelevanceScore: 0.2, RelevanceCategory: "Low Relevance",
			IntentPrimary: "Support",
		},
		{
			CommentID: 1, Comment: "first", SentimentLabel: "NEGATIVE",
			BaseConfidence: 0.9, AdjustedConfidence: 0.85, AdjustmentRatio: 0.94,
			RelevanceScore: 0.7, RelevanceCategory: "Moderately Relevant",
			TargetSection: "Section 2", IntentPrimary: "Opposition",
			IntentConfidence: 0.6, Constructive: false, Degraded: false,
		},
	}
	require.NoError(t, repo.InsertBatch(ctx, run.ID, batch))

	results, err := repo.ListByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by comment ID regardless of insert order.
	assert.Equal(t, 1, results[0].CommentID)
	assert.Equal(t, "first", results[0].Comment)
	assert.Equal(t, "Section 2", results[0].TargetSection)
	assert.Equal(t, run.ID, results[0].RunID)
	assert.Equal(t, 2, results[1].CommentID)
}

func TestResultRepository_ListByRunEmpty(t *testing.T) {
	db := testDB(t)
	repo := NewResultRepository(db)

	results, err := repo.ListByRun(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, results)
}
