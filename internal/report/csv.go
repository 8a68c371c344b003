// Package report handles CSV ingest of comments and export of analysis
// results. These are outer collaborators of the analysis core.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/civiclens/feedback-engine/internal/analysis"
	"github.com/civiclens/feedback-engine/internal/storage"
)

// ReadComments reads a comment column from CSV input. The column is located
// by header name (case-insensitive); with no matching header the first
// column is used. Blank rows are skipped.
func ReadComments(r io.Reader, column string) ([]string, error) {
	if column == "" {
		column = "comment"
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	col := 0
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			col = i
			break
		}
	}

	var comments []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		if col >= len(record) {
			continue
		}
		comment := strings.TrimSpace(record[col])
		if comment == "" {
			continue
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

var exportHeader = []string{
	"comment_id", "comment", "sentiment_label", "base_confidence",
	"adjusted_confidence", "adjustment_ratio", "relevance_score",
	"relevance_category", "target_section", "intent", "intent_confidence",
	"constructive", "degraded",
}

// WriteResults exports analysis results as CSV, one row per comment in
// batch order.
func WriteResults(w io.Writer, results []analysis.Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, r := range results {
		row := []string{
			strconv.Itoa(r.CommentID),
			r.Comment,
			string(r.AdjustedSentiment.Label),
			formatFloat(r.BaseSentiment.Confidence),
			formatFloat(r.AdjustedSentiment.Confidence),
			formatFloat(r.AdjustedSentiment.Ratio),
			formatFloat(r.Relevance.Score),
			r.Relevance.Category,
			r.DocumentContext.TargetSectionTitle,
			string(r.Intent.Primary),
			formatFloat(r.Intent.Confidence),
			strconv.FormatBool(r.Intent.Constructive),
			strconv.FormatBool(r.Degraded),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row %d: %w", r.CommentID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// ToStored converts analysis results to their persisted form.
func ToStored(results []analysis.Result) []storage.CommentResult {
	stored := make([]storage.CommentResult, 0, len(results))
	for _, r := range results {
		stored = append(stored, storage.CommentResult{
			CommentID:          r.CommentID,
			Comment:            r.Comment,
			SentimentLabel:     string(r.AdjustedSentiment.Label),
			BaseConfidence:     r.BaseSentiment.Confidence,
			AdjustedConfidence: r.AdjustedSentiment.Confidence,
			AdjustmentRatio:    r.AdjustedSentiment.Ratio,
			RelevanceScore:     r.Relevance.Score,
			RelevanceCategory:  r.Relevance.Category,
			TargetSection:      r.DocumentContext.TargetSectionTitle,
			IntentPrimary:      string(r.Intent.Primary),
			IntentConfidence:   r.Intent.Confidence,
			Constructive:       r.Intent.Constructive,
			Degraded:           r.Degraded,
		})
	}
	return stored
}
