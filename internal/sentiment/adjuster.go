package sentiment

import "github.com/civiclens/feedback-engine/internal/intent"

// Adjusted is a sentiment confidence rescaled by document relevance and
// comment intent. The original confidence and the adjustment ratio are kept
// for auditability.
type Adjusted struct {
	Label              Label   `json:"label"`
	Confidence         float64 `json:"confidence"`
	OriginalConfidence float64 `json:"original_confidence"`
	Ratio              float64 `json:"ratio"`
}

// Adjust rescales the base confidence for document context.
//
// Relevance scaling halves the confidence of an irrelevant comment and
// preserves it fully at relevance 1.0. Because boosted relevance scores are
// not clamped, the multiplier can exceed 1.0. Intent reinforcement then
// amplifies aligned sentiment (Support+POSITIVE, Opposition+NEGATIVE) with
// a 1.0 cap, and dampens non-neutral confidence on questions and
// clarification requests.
func Adjust(base Sentiment, relevanceScore float64, primary intent.Category) Adjusted {
	adjusted := base.Confidence * (0.5 + 0.5*relevanceScore)

	switch {
	case primary == intent.CategorySupport && base.Label == LabelPositive:
		adjusted *= 1.2
		if adjusted > 1.0 {
			adjusted = 1.0
		}
	case primary == intent.CategoryOpposition && base.Label == LabelNegative:
		adjusted *= 1.2
		if adjusted > 1.0 {
			adjusted = 1.0
		}
	case primary == intent.CategoryQuestion || primary == intent.CategoryClarification:
		if base.Label != LabelNeutral {
			adjusted *= 0.8
		}
	}

	ratio := 1.0
	if base.Confidence > 0 {
		ratio = adjusted / base.Confidence
	}

	return Adjusted{
		Label:              base.Label,
		Confidence:         adjusted,
		OriginalConfidence: base.Confidence,
		Ratio:              ratio,
	}
}
