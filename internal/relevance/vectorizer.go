// Package relevance builds a term-weighted vector space over document
// sections and scores comment text against it.
package relevance

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/civiclens/feedback-engine/internal/document"
)

// Relevance categories, from strongest to weakest.
const (
	CategoryHighlyRelevant     = "Highly Relevant"
	CategoryModeratelyRelevant = "Moderately Relevant"
	CategorySomewhatRelevant   = "Somewhat Relevant"
	CategoryLowRelevance       = "Low Relevance"
	CategoryUnknown            = "Unknown"
)

// Domain keywords that lift the relevance of a comment regardless of its
// vector similarity. Matched as case-insensitive substrings.
var legalKeywords = []string{
	"section", "clause", "article", "amendment", "act", "law", "regulation",
	"provision", "requirement", "compliance", "penalty", "fine", "director",
	"company", "board", "shareholder", "csr", "remuneration", "disqualification",
}

var sectionReferencePattern = regexp.MustCompile(`section\s+(\d+)`)

// Result holds the relevance analysis for one piece of text.
type Result struct {
	Score        float64           `json:"score"`
	Section      *document.Section `json:"section,omitempty"`
	SectionIndex int               `json:"section_index"`
	Category     string            `json:"category"`
	Similarities []float64         `json:"similarities,omitempty"`
}

// unknownResult is returned when no index has been built.
func unknownResult() Result {
	return Result{
		Score:        0.0,
		Section:      nil,
		SectionIndex: -1,
		Category:     CategoryUnknown,
	}
}

// VectorizerConfig holds index-building parameters.
type VectorizerConfig struct {
	// MaxTerms caps the vocabulary at the most frequent terms.
	MaxTerms int
	// MaxDocFreq drops terms appearing in more than this fraction of sections.
	MaxDocFreq float64
	// MaxNGram is the longest n-gram included in the vocabulary.
	MaxNGram int
}

// DefaultVectorizerConfig mirrors the parameters the index was tuned with:
// unigrams through trigrams, 2000 terms, 95% document-frequency ceiling.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxTerms:   2000,
		MaxDocFreq: 0.95,
		MaxNGram:   3,
	}
}

// Vectorizer builds relevance indexes over extracted sections.
type Vectorizer struct {
	cfg VectorizerConfig
}

// NewVectorizer creates a vectorizer with the given configuration.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = 2000
	}
	if cfg.MaxDocFreq <= 0 || cfg.MaxDocFreq > 1 {
		cfg.MaxDocFreq = 0.95
	}
	if cfg.MaxNGram <= 0 {
		cfg.MaxNGram = 3
	}
	return &Vectorizer{cfg: cfg}
}

// Index is a term-weighted matrix over one document's sections. It is
// immutable once built; a new document gets a freshly built index.
type Index struct {
	sections []document.Section
	vocab    map[string]int
	idf      []float64
	vectors  []map[int]float64 // one L2-normalized sparse row per section
}

// BuildIndex computes TF-IDF weights over the section contents. Returns nil
// when there are no sections to index.
func (v *Vectorizer) BuildIndex(sections []document.Section) *Index {
	if len(sections) == 0 {
		return nil
	}

	// Term counts per section and document frequencies across sections.
	sectionTerms := make([]map[string]int, len(sections))
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)

	for i, sec := range sections {
		counts := termCounts(sec.Content, v.cfg.MaxNGram)
		sectionTerms[i] = counts
		for term, n := range counts {
			docFreq[term]++
			corpusFreq[term] += n
		}
	}

	// Drop terms above the document-frequency ceiling. If the ceiling would
	// empty the vocabulary (every term in every section of a tiny document),
	// keep the unfiltered terms instead of producing a useless index.
	maxDF := v.cfg.MaxDocFreq * float64(len(sections))
	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if float64(df) <= maxDF {
			kept = append(kept, term)
		}
	}
	if len(kept) == 0 {
		for term := range docFreq {
			kept = append(kept, term)
		}
	}

	// Keep the top MaxTerms by corpus frequency, alphabetical on ties.
	sort.Slice(kept, func(a, b int) bool {
		if corpusFreq[kept[a]] != corpusFreq[kept[b]] {
			return corpusFreq[kept[a]] > corpusFreq[kept[b]]
		}
		return kept[a] < kept[b]
	})
	if len(kept) > v.cfg.MaxTerms {
		kept = kept[:v.cfg.MaxTerms]
	}
	sort.Strings(kept)

	vocab := make(map[string]int, len(kept))
	for i, term := range kept {
		vocab[term] = i
	}

	// Smoothed inverse document frequency.
	n := float64(len(sections))
	idf := make([]float64, len(kept))
	for term, col := range vocab {
		idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	idx := &Index{
		sections: sections,
		vocab:    vocab,
		idf:      idf,
		vectors:  make([]map[int]float64, len(sections)),
	}

	for i, counts := range sectionTerms {
		idx.vectors[i] = idx.weigh(counts)
	}

	return idx
}

// Sections returns the sections the index was built over.
func (idx *Index) Sections() []document.Section {
	if idx == nil {
		return nil
	}
	return idx.sections
}

// VocabularySize returns the number of indexed terms.
func (idx *Index) VocabularySize() int {
	if idx == nil {
		return 0
	}
	return len(idx.vocab)
}

// Score projects text into the index's term space, computes cosine
// similarity against every section, applies the keyword boost uniformly,
// and selects the best section with a stable argmax. A nil index yields the
// Unknown degenerate result instead of an error.
func (idx *Index) Score(text string) Result {
	if idx == nil || len(idx.sections) == 0 {
		return unknownResult()
	}

	query := idx.weigh(termCounts(text, 3))
	boost := keywordBoost(text)

	similarities := make([]float64, len(idx.sections))
	for i, row := range idx.vectors {
		similarities[i] = dot(query, row) + boost
	}

	// Stable argmax: first index achieving the maximum wins.
	best := 0
	for i := 1; i < len(similarities); i++ {
		if similarities[i] > similarities[best] {
			best = i
		}
	}

	return Result{
		Score:        similarities[best],
		Section:      &idx.sections[best],
		SectionIndex: best,
		Category:     Categorize(similarities[best]),
		Similarities: similarities,
	}
}

// Categorize maps a boosted relevance score onto a category label. Scores
// are not normalized probabilities; boosting can push them past 1.0.
func Categorize(score float64) string {
	switch {
	case score > 0.7:
		return CategoryHighlyRelevant
	case score > 0.5:
		return CategoryModeratelyRelevant
	case score > 0.3:
		return CategorySomewhatRelevant
	default:
		return CategoryLowRelevance
	}
}

// keywordBoost computes the additive lift from domain keywords and explicit
// section references. Multiple section references stack.
func keywordBoost(text string) float64 {
	lower := strings.ToLower(text)

	boost := 0.0
	for _, kw := range legalKeywords {
		if strings.Contains(lower, kw) {
			boost += 0.1
		}
	}

	refs := sectionReferencePattern.FindAllString(lower, -1)
	boost += 0.2 * float64(len(refs))

	return boost
}

// weigh converts raw term counts into a sublinear TF-IDF vector restricted
// to the index vocabulary, L2-normalized.
func (idx *Index) weigh(counts map[string]int) map[int]float64 {
	vec := make(map[int]float64)
	for term, n := range counts {
		col, ok := idx.vocab[term]
		if !ok {
			continue
		}
		tf := 1 + math.Log(float64(n))
		vec[col] = tf * idx.idf[col]
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col, w := range vec {
			vec[col] = w / norm
		}
	}

	return vec
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		sum += w * b[col]
	}
	return sum
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// termCounts tokenizes text and counts unigrams through maxNGram-grams over
// the stopword-filtered token stream.
func termCounts(text string, maxNGram int) map[string]int {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	filtered := tokens[:0]
	for _, tok := range tokens {
		if !isStopWord(tok) {
			filtered = append(filtered, tok)
		}
	}

	counts := make(map[string]int)
	for n := 1; n <= maxNGram; n++ {
		for i := 0; i+n <= len(filtered); i++ {
			counts[strings.Join(filtered[i:i+n], " ")]++
		}
	}

	return counts
}
