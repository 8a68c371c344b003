package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/feedback-engine/internal/document"
	"github.com/civiclens/feedback-engine/internal/intent"
	"github.com/civiclens/feedback-engine/internal/relevance"
	"github.com/civiclens/feedback-engine/internal/sentiment"
)

func summaryResult(id int, score float64, label sentiment.Label, cat intent.Category, section *document.Section) Result {
	return Result{
		CommentID:         id,
		AdjustedSentiment: sentiment.Adjusted{Label: label, Confidence: 0.8},
		Relevance:         relevance.Result{Score: score, Section: section},
		Intent:            intent.Result{Primary: cat},
	}
}

func TestBuildSummary_Empty(t *testing.T) {
	summary := BuildSummary("Bill", nil)
	assert.Equal(t, "No comments analyzed.", summary.Text)
	assert.Equal(t, 0, summary.RelevanceStats.TotalComments)
}

func TestBuildSummary_CountsBands(t *testing.T) {
	sec := &document.Section{Title: "Section 2"}
	results := []Result{
		summaryResult(1, 0.9, sentiment.LabelNegative, intent.CategoryOpposition, sec),
		summaryResult(2, 0.6, sentiment.LabelPositive, intent.CategorySupport, sec),
		summaryResult(3, 0.4, sentiment.LabelNeutral, intent.CategoryQuestion, sec),
		summaryResult(4, 0.1, sentiment.LabelPositive, intent.CategorySupport, sec),
	}

	summary := BuildSummary("Bill", results)
	stats := summary.RelevanceStats
	assert.Equal(t, 4, stats.TotalComments)
	assert.Equal(t, 3, stats.RelevantComments) // score > 0.3
	assert.Equal(t, 1, stats.HighlyRelevant)
	assert.Equal(t, 1, stats.ModeratelyRelevant)

	// Distributions cover relevant comments only, so comment 4 is excluded.
	assert.Equal(t, 1, summary.SentimentDistribution[sentiment.LabelPositive])
	assert.Equal(t, 1, summary.SentimentDistribution[sentiment.LabelNegative])
	assert.Equal(t, 1, summary.IntentDistribution[intent.CategoryQuestion])
	assert.Equal(t, 0, summary.IntentDistribution[intent.CategorySuggestion])

	assert.Equal(t, []int{1, 2, 3}, summary.SectionFeedback["Section 2"])
	assert.Contains(t, summary.Text, "Bill")
	assert.Contains(t, summary.Text, "75.0%")
}

func TestBuildSummary_NoneRelevant(t *testing.T) {
	results := []Result{
		summaryResult(1, 0.1, sentiment.LabelPositive, intent.CategorySupport, nil),
		summaryResult(2, 0.3, sentiment.LabelNegative, intent.CategoryOpposition, nil),
	}

	summary := BuildSummary("Bill", results)
	assert.Equal(t, "No highly relevant comments found for the main document.", summary.Text)
	assert.Empty(t, summary.SentimentDistribution)
}

func TestKeywordFrequency(t *testing.T) {
	texts := []string{
		"penalty penalty compliance",
		"penalty and the compliance burden",
		"it is so",
	}

	words := KeywordFrequency(texts, 2)
	require.Len(t, words, 2)
	assert.Equal(t, WordCount{Word: "penalty", Count: 3}, words[0])
	assert.Equal(t, WordCount{Word: "compliance", Count: 2}, words[1])
}

func TestKeywordFrequency_SkipsStopAndShortWords(t *testing.T) {
	words := KeywordFrequency([]string{"the and or it at"}, 10)
	assert.Empty(t, words)
}

func TestKeywordFrequency_TieBreaksAlphabetically(t *testing.T) {
	words := KeywordFrequency([]string{"zebra apple"}, 10)
	require.Len(t, words, 2)
	assert.Equal(t, "apple", words[0].Word)
	assert.Equal(t, "zebra", words[1].Word)
}
