package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/sentiment"
)

func TestAnalyzeBatch_OrderPreserved(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	comments := []string{
		"I support the responsibility allocation in section 1",
		"the monetary penalty for directors is excessive",
		"completely unrelated remark",
		"please clarify the scope of section 3",
	}

	results, err := s.AnalyzeBatch(ctx, comments, nil)
	require.NoError(t, err)
	require.Len(t, results, len(comments))

	for i, r := range results {
		assert.Equal(t, i+1, r.CommentID)
		assert.Equal(t, comments[i], r.Comment)
	}
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	s := newTestSession(t, nil)

	results, err := s.AnalyzeBatch(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnalyzeBatch_ProgressReported(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	comments := []string{"one comment", "two comment", "three comment"}

	var mu sync.Mutex
	calls := 0
	maxDone := 0
	_, err = s.AnalyzeBatch(ctx, comments, func(done, total int) {
		mu.Lock()
		calls++
		if done > maxDone {
			maxDone = done
		}
		mu.Unlock()
		assert.Equal(t, len(comments), total)
	})
	require.NoError(t, err)

	assert.Equal(t, len(comments), calls)
	assert.Equal(t, len(comments), maxDone)
}

func TestAnalyzeBatch_SingleWorker(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.MaxWorkers = 1
	provider := &fakeProvider{sentiment: sentiment.Sentiment{Label: sentiment.LabelPositive, Confidence: 0.8}}
	s := NewSession(observability.Nop(), provider, nil, cfg)
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	results, err := s.AnalyzeBatch(ctx, []string{"first", "second"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, provider.calls)
}

func TestAnalyzeBatch_Timeout(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.BatchTimeout = time.Nanosecond
	provider := &slowProvider{delay: 50 * time.Millisecond}
	s := NewSession(observability.Nop(), provider, nil, cfg)
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	_, err = s.AnalyzeBatch(ctx, []string{"a", "b", "c"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

// slowProvider sleeps before answering, ignoring context cancellation, so
// the batch deadline fires first.
type slowProvider struct {
	delay time.Duration
}

func (p *slowProvider) Classify(ctx context.Context, text string) (sentiment.Sentiment, error) {
	time.Sleep(p.delay)
	return sentiment.Degraded(), nil
}

func (p *slowProvider) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	time.Sleep(p.delay)
	return text, nil
}
