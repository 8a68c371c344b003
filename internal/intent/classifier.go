// Package intent classifies stakeholder comments into fixed feedback
// categories using keyword heuristics.
package intent

import "strings"

// Category is one of the six fixed comment intent categories.
type Category string

const (
	CategorySupport        Category = "Support"
	CategoryOpposition     Category = "Opposition"
	CategorySuggestion     Category = "Suggestion"
	CategoryQuestion       Category = "Question"
	CategoryClarification  Category = "Clarification"
	CategoryImplementation Category = "Implementation"
)

// categoryOrder fixes the enumeration order used for tie-breaking: the
// first category achieving the maximum score wins.
var categoryOrder = []Category{
	CategorySupport,
	CategoryOpposition,
	CategorySuggestion,
	CategoryQuestion,
	CategoryClarification,
	CategoryImplementation,
}

// Keyword lists per category. Matching is case-insensitive substring
// membership: each listed keyword contributes at most one point.
var categoryKeywords = map[Category][]string{
	CategorySupport: {
		"support", "agree", "approve", "endorse", "favor", "good", "excellent",
		"beneficial", "positive", "welcome", "appreciate", "commend",
		"great", "wonderful", "fantastic", "outstanding", "praise", "laud",
		"commendable", "admirable", "valuable", "useful", "helpful",
	},
	CategoryOpposition: {
		"oppose", "disagree", "against", "object", "concern", "problem", "issue",
		"negative", "harmful", "damaging", "unacceptable", "reject", "criticize",
		"criticism", "flawed", "inadequate", "insufficient", "worried", "worrisome",
		"problematic", "troubling", "serious concern", "major issue",
	},
	CategorySuggestion: {
		"suggest", "recommend", "propose", "recommendation", "improvement",
		"modify", "change", "amend", "revise", "clarify", "should", "could",
		"might", "consider", "alternative", "better", "enhance", "strengthen",
		"improve", "refine", "adjust", "update",
	},
	CategoryQuestion: {
		"question", "ask", "wonder", "unclear", "confused", "explain",
		"how", "what", "why", "when", "where", "?", "confusion",
		"understand", "comprehension", "clarification needed", "please explain",
	},
	CategoryClarification: {
		"clarify", "explain", "define", "specify", "detail", "elaborate",
		"understand", "comprehension", "meaning", "interpretation", "scope",
		"extent", "coverage", "application", "implementation",
	},
	CategoryImplementation: {
		"implement", "execute", "apply", "enforce", "timeline", "schedule",
		"process", "procedure", "mechanism", "rollout", "deployment", "phasing",
		"stages", "steps", "approach", "methodology", "framework",
	},
}

// Result holds the intent classification for one comment.
type Result struct {
	Primary      Category         `json:"primary"`
	Confidence   float64          `json:"confidence"`
	Scores       map[Category]int `json:"scores"`
	Constructive bool             `json:"constructive"`
}

// Classifier assigns comments to intent categories by keyword scoring.
// It is stateless and safe for concurrent use.
type Classifier struct{}

// NewClassifier creates an intent classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify scores the comment against every category's keyword list. The
// primary category is the stable argmax over the fixed category order;
// confidence is the primary score's share of the total, zero when nothing
// matched at all.
func (c *Classifier) Classify(comment string) Result {
	lower := strings.ToLower(comment)

	scores := make(map[Category]int, len(categoryOrder))
	total := 0
	for _, cat := range categoryOrder {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		scores[cat] = score
		total += score
	}

	primary := categoryOrder[0]
	for _, cat := range categoryOrder[1:] {
		if scores[cat] > scores[primary] {
			primary = cat
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = float64(scores[primary]) / float64(total)
	}

	return Result{
		Primary:      primary,
		Confidence:   confidence,
		Scores:       scores,
		Constructive: isConstructive(primary),
	}
}

func isConstructive(cat Category) bool {
	switch cat {
	case CategorySuggestion, CategoryQuestion, CategoryClarification:
		return true
	default:
		return false
	}
}
