package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/feedback-engine/internal/cache"
	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/relevance"
	"github.com/civiclens/feedback-engine/internal/sentiment"
)

const testDocument = `Section 1: Companies must allocate two percent of average net profits ` +
	`toward corporate social responsibility activities during every financial year without exception. ` +
	`Section 2: Directors who fail to comply with these requirements shall be liable to a monetary penalty ` +
	`as prescribed by the relevant regulator of companies. ` +
	`Section 3: Shareholder meetings require advance notice and published agendas covering all remuneration decisions.`

// fakeProvider is a controllable sentiment provider for tests.
type fakeProvider struct {
	mu        sync.Mutex
	sentiment sentiment.Sentiment
	err       error
	calls     int
}

func (f *fakeProvider) Classify(ctx context.Context, text string) (sentiment.Sentiment, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return sentiment.Sentiment{}, f.err
	}
	return f.sentiment, nil
}

func (f *fakeProvider) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "provider summary", nil
}

func newTestSession(t *testing.T, provider sentiment.Provider) *Session {
	t.Helper()
	if provider == nil {
		provider = &fakeProvider{sentiment: sentiment.Sentiment{Label: sentiment.LabelNeutral, Confidence: 0.9}}
	}
	return NewSession(observability.Nop(), provider, nil, DefaultSessionConfig())
}

func TestScoreRelevance_NoDocumentReturnsUnknown(t *testing.T) {
	s := newTestSession(t, nil)

	result := s.ScoreRelevance(context.Background(), "any comment")
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, -1, result.SectionIndex)
	assert.Equal(t, relevance.CategoryUnknown, result.Category)
	assert.Nil(t, result.Section)
}

func TestSetDocument_EmptyTextFails(t *testing.T) {
	s := newTestSession(t, nil)

	_, err := s.SetDocument(context.Background(), "   \n ", "Draft Bill")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDocument))
	assert.Nil(t, s.Document())
}

func TestSetDocument_ExtractsSections(t *testing.T) {
	s := newTestSession(t, nil)

	count, err := s.SetDocument(context.Background(), testDocument, "Companies Amendment Bill")
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	doc := s.Document()
	require.NotNil(t, doc)
	assert.Equal(t, "Companies Amendment Bill", doc.Title)
	assert.Len(t, doc.Sections, count)
}

func TestSetDocument_DefaultTitle(t *testing.T) {
	s := newTestSession(t, nil)

	_, err := s.SetDocument(context.Background(), testDocument, "")
	require.NoError(t, err)
	assert.Equal(t, "Main Document", s.Document().Title)
}

func TestSetDocument_Idempotent(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	first, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)
	scoreA := s.ScoreRelevance(ctx, "the monetary penalty for directors")

	second, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)
	scoreB := s.ScoreRelevance(ctx, "the monetary penalty for directors")

	assert.Equal(t, first, second)
	assert.InDelta(t, scoreA.Score, scoreB.Score, 1e-12)
	assert.Equal(t, scoreA.SectionIndex, scoreB.SectionIndex)
}

func TestAnalyzeComment_FullPipeline(t *testing.T) {
	provider := &fakeProvider{sentiment: sentiment.Sentiment{Label: sentiment.LabelNegative, Confidence: 0.9}}
	s := newTestSession(t, provider)
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	result := s.AnalyzeComment(ctx, "I oppose the penalty in section 2, it is excessive and harmful")

	assert.False(t, result.Degraded)
	assert.Equal(t, sentiment.LabelNegative, result.BaseSentiment.Label)
	assert.Greater(t, result.Relevance.Score, 0.3)
	assert.True(t, result.DocumentContext.IsRelevant)
	assert.NotEmpty(t, result.DocumentContext.TargetSectionTitle)

	// Opposition aligned with NEGATIVE amplifies the relevance-scaled
	// confidence by 1.2, capped at 1.0.
	expected := 0.9 * (0.5 + 0.5*result.Relevance.Score) * 1.2
	if expected > 1.0 {
		expected = 1.0
	}
	assert.InDelta(t, expected, result.AdjustedSentiment.Confidence, 1e-9)
}

func TestAnalyzeComment_ProviderFailureDegrades(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model unavailable")}
	s := newTestSession(t, provider)
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	result := s.AnalyzeComment(ctx, "I support this change")
	assert.True(t, result.Degraded)
	assert.Equal(t, sentiment.LabelNeutral, result.BaseSentiment.Label)
	assert.Equal(t, 0.5, result.BaseSentiment.Confidence)
	// Relevance and intent still run normally.
	assert.NotNil(t, result.Intent.Scores)
}

func TestAnalyzeComment_IrrelevantComment(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	result := s.AnalyzeComment(ctx, "completely unrelated gardening chatter")
	assert.False(t, result.DocumentContext.IsRelevant)
	assert.Equal(t, relevance.CategoryLowRelevance, result.Relevance.Category)
}

func TestSummarize_ProviderFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model unavailable")}
	s := newTestSession(t, provider)

	out := s.Summarize(context.Background(), "First point. Second point. Third point. Fourth point.", 100)
	assert.Equal(t, "First point. Second point. Third point.", out)
}

func TestSummarize_UsesProvider(t *testing.T) {
	provider := &fakeProvider{sentiment: sentiment.Sentiment{Label: sentiment.LabelNeutral, Confidence: 0.5}}
	s := newTestSession(t, provider)

	out := s.Summarize(context.Background(), "Some long feedback text.", 50)
	assert.Equal(t, "provider summary", out)
}

func TestScoreRelevance_CachedAcrossCalls(t *testing.T) {
	client := cache.NewMemoryClient(100)
	scoreCache := NewScoreCache(client, observability.Nop(), time.Minute)
	s := NewSession(observability.Nop(), &fakeProvider{sentiment: sentiment.Degraded()}, scoreCache, DefaultSessionConfig())
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)

	first := s.ScoreRelevance(ctx, "the monetary penalty for directors")
	second := s.ScoreRelevance(ctx, "the monetary penalty for directors")

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.SectionIndex, second.SectionIndex)
	assert.Equal(t, first.Category, second.Category)
}

func TestSetDocument_InvalidatesCache(t *testing.T) {
	client := cache.NewMemoryClient(100)
	scoreCache := NewScoreCache(client, observability.Nop(), time.Minute)
	s := NewSession(observability.Nop(), &fakeProvider{sentiment: sentiment.Degraded()}, scoreCache, DefaultSessionConfig())
	ctx := context.Background()

	_, err := s.SetDocument(ctx, testDocument, "Bill")
	require.NoError(t, err)
	s.ScoreRelevance(ctx, "the monetary penalty for directors")

	// A new document gets a new index version; stale entries are dropped.
	_, err = s.SetDocument(ctx, "Section 9: An entirely different rule about environmental disclosures "+
		"applying to listed companies with large annual turnover thresholds.", "Other Bill")
	require.NoError(t, err)

	result := s.ScoreRelevance(ctx, "the monetary penalty for directors")
	require.NotNil(t, result.Section)
	assert.Equal(t, "9", result.Section.ID)
}
