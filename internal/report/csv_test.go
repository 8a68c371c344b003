package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/feedback-engine/internal/analysis"
	"github.com/civiclens/feedback-engine/internal/document"
	"github.com/civiclens/feedback-engine/internal/intent"
	"github.com/civiclens/feedback-engine/internal/relevance"
	"github.com/civiclens/feedback-engine/internal/sentiment"
)

func TestReadComments_ByHeaderName(t *testing.T) {
	input := "id,comment,author\n1,first comment,alice\n2,second comment,bob\n"

	comments, err := ReadComments(strings.NewReader(input), "comment")
	require.NoError(t, err)
	assert.Equal(t, []string{"first comment", "second comment"}, comments)
}

func TestReadComments_HeaderCaseInsensitive(t *testing.T) {
	input := "ID,Comment\n1,hello\n"

	comments, err := ReadComments(strings.NewReader(input), "comment")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, comments)
}

func TestReadComments_FallsBackToFirstColumn(t *testing.T) {
	input := "text,author\nraw feedback,carol\n"

	comments, err := ReadComments(strings.NewReader(input), "comment")
	require.NoError(t, err)
	assert.Equal(t, []string{"raw feedback"}, comments)
}

func TestReadComments_SkipsBlankRows(t *testing.T) {
	input := "comment\nfirst\n\n   \nsecond\n"

	comments, err := ReadComments(strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, comments)
}

func TestReadComments_EmptyInput(t *testing.T) {
	_, err := ReadComments(strings.NewReader(""), "comment")
	assert.Error(t, err)
}

func sampleResult() analysis.Result {
	return analysis.Result{
		CommentID:     1,
		Comment:       "the penalty is too harsh",
		BaseSentiment: sentiment.Sentiment{Label: sentiment.LabelNegative, Confidence: 0.9},
		AdjustedSentiment: sentiment.Adjusted{
			Label: sentiment.LabelNegative, Confidence: 0.765,
			OriginalConfidence: 0.9, Ratio: 0.85,
		},
		Relevance: relevance.Result{
			Score:    0.7,
			Section:  &document.Section{Title: "Section 2"},
			Category: relevance.CategoryModeratelyRelevant,
		},
		Intent: intent.Result{Primary: intent.CategoryOpposition, Confidence: 0.5},
		DocumentContext: analysis.DocumentContext{
			IsRelevant:         true,
			TargetSectionTitle: "Section 2",
		},
	}
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, []analysis.Result{sampleResult()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "comment_id,comment,sentiment_label"))

	fields := strings.Split(lines[1], ",")
	assert.Equal(t, "1", fields[0])
	assert.Equal(t, "the penalty is too harsh", fields[1])
	assert.Equal(t, "NEGATIVE", fields[2])
	assert.Equal(t, "0.9000", fields[3])
	assert.Equal(t, "Section 2", fields[8])
	assert.Equal(t, "Opposition", fields[9])
}

func TestToStored(t *testing.T) {
	stored := ToStored([]analysis.Result{sampleResult()})
	require.Len(t, stored, 1)

	assert.Equal(t, 1, stored[0].CommentID)
	assert.Equal(t, "NEGATIVE", stored[0].SentimentLabel)
	assert.Equal(t, 0.9, stored[0].BaseConfidence)
	assert.Equal(t, 0.765, stored[0].AdjustedConfidence)
	assert.Equal(t, "Moderately Relevant", stored[0].RelevanceCategory)
	assert.Equal(t, "Section 2", stored[0].TargetSection)
	assert.Equal(t, "Opposition", stored[0].IntentPrimary)
}
