// Package sentiment defines the boundary to the external sentiment and
// summarization capability, plus the context-aware confidence adjuster.
package sentiment

import (
	"context"
	"regexp"
	"strings"
)

// Label is a normalized sentiment label.
type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
	LabelNeutral  Label = "NEUTRAL"
)

// Sentiment is a classifier output after label normalization.
type Sentiment struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Provider is the external model capability the engine consumes. Both
// methods are black boxes from the core's point of view; implementations
// normalize labels before returning.
type Provider interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
	Summarize(ctx context.Context, text string, maxWords int) (string, error)
}

// NormalizeLabel maps raw classifier labels onto the three canonical
// labels. Model-style LABEL_0/1/2 outputs map to NEGATIVE/NEUTRAL/POSITIVE.
// Unrecognized labels pass through unchanged.
func NormalizeLabel(raw string) Label {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LABEL_2", "POSITIVE":
		return LabelPositive
	case "LABEL_0", "NEGATIVE":
		return LabelNegative
	case "LABEL_1", "NEUTRAL":
		return LabelNeutral
	default:
		return Label(strings.ToUpper(strings.TrimSpace(raw)))
	}
}

// Degraded is the safe default used when the provider is unavailable.
// A batch never aborts because one classification failed.
func Degraded() Sentiment {
	return Sentiment{Label: LabelNeutral, Confidence: 0.5}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	specialChars  = regexp.MustCompile(`[^\w\s.,!?;:]`)
)

// CleanText collapses whitespace and strips special characters while
// keeping basic punctuation.
func CleanText(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = specialChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
