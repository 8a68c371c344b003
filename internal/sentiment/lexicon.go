package sentiment

import (
	"context"
	"strings"

	"github.com/civiclens/feedback-engine/internal/document"
)

// LexiconProvider is a deterministic, dependency-free Provider. It serves
// offline development and tests, and acts as the fallback when no model
// API is configured. Classification counts polarity words; summarization
// is extractive.
type LexiconProvider struct {
	positive map[string]bool
	negative map[string]bool
}

// NewLexiconProvider creates a lexicon-backed provider.
func NewLexiconProvider() *LexiconProvider {
	return &LexiconProvider{
		positive: wordSet(`good great excellent wonderful fantastic outstanding
			beneficial positive welcome support agree approve endorse appreciate
			commend valuable useful helpful admirable strong improvement improved
			clear fair effective efficient progressive balanced transparent`),
		negative: wordSet(`bad poor harmful damaging unacceptable negative oppose
			disagree object reject concern concerned worried problematic troubling
			flawed inadequate insufficient unfair unclear burdensome excessive
			costly vague weak confusing restrictive punitive arbitrary`),
	}
}

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// Classify labels text by polarity word counts. Equal counts mean NEUTRAL.
// Confidence grows with the margin between positive and negative hits and
// never reaches certainty.
func (p *LexiconProvider) Classify(ctx context.Context, text string) (Sentiment, error) {
	var pos, neg int
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:()[]{}'\"")
		if p.positive[tok] {
			pos++
		}
		if p.negative[tok] {
			neg++
		}
	}

	margin := pos - neg
	label := LabelNeutral
	if margin > 0 {
		label = LabelPositive
	} else if margin < 0 {
		label = LabelNegative
	}

	confidence := 0.5 + 0.1*abs(margin)
	if confidence > 0.95 {
		confidence = 0.95
	}

	return Sentiment{Label: label, Confidence: confidence}, nil
}

// Summarize returns the leading sentences of the text. Short texts come
// back cleaned but otherwise untouched.
func (p *LexiconProvider) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	cleaned := CleanText(text)
	if maxWords <= 0 {
		maxWords = 150
	}
	if len(strings.Fields(cleaned)) < 50 {
		return cleaned, nil
	}

	var out []string
	words := 0
	for _, s := range document.SplitSentences(cleaned) {
		n := len(strings.Fields(s))
		if words+n > maxWords && len(out) > 0 {
			break
		}
		out = append(out, s)
		words += n
	}

	return strings.Join(out, " "), nil
}

func abs(n int) float64 {
	if n < 0 {
		return float64(-n)
	}
	return float64(n)
}
