// Package document provides structural section extraction from reference
// documents such as draft legislation or policy text.
package document

import (
	"regexp"
	"strconv"
	"strings"
)

// Section is a contiguous span of the document used as a unit of relevance
// comparison. Sections come either from structural markers or, when none are
// found, from artificial sentence chunks.
type Section struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}

// Document is the reference text currently loaded for analysis.
type Document struct {
	Title    string    `json:"title"`
	Text     string    `json:"text"`
	Sections []Section `json:"sections"`
}

// Extractor splits raw document text into labeled sections.
type Extractor struct {
	minSectionChars int
	fallbackChunks  int
}

// ExtractorConfig holds extractor configuration.
type ExtractorConfig struct {
	// MinSectionChars is the minimum content length for a pattern-derived
	// section. Shorter matches are treated as noise.
	MinSectionChars int
	// FallbackChunks is the approximate number of artificial sections
	// produced when no structural markers are found.
	FallbackChunks int
}

// NewExtractor creates a section extractor.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.MinSectionChars <= 0 {
		cfg.MinSectionChars = 50
	}
	if cfg.FallbackChunks <= 0 {
		cfg.FallbackChunks = 10
	}
	return &Extractor{
		minSectionChars: cfg.MinSectionChars,
		fallbackChunks:  cfg.FallbackChunks,
	}
}

// Marker patterns for legal and legislative prose, applied in fixed order.
// Each pattern locates section markers; the section body runs from the end
// of a marker to the start of the next marker of the same family.
var sectionMarkerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Section|Clause|Article|Chapter|Part)\s+(\d+(?:\.\d+)*)[:.]?`),
	regexp.MustCompile(`(\d+(?:\.\d+)*)[:.]`),
	regexp.MustCompile(`(?i)Amendment of section (\d+)[:.]?`),
	regexp.MustCompile(`(?i)In section (\d+)[:.]?`),
	regexp.MustCompile(`([A-Z][A-Z\s]+)[:.]`),
}

// ExtractSections splits document text into labeled sections. All marker
// families that produce at least one qualifying candidate contribute
// sections; families are not mutually exclusive, so overlapping spans are
// accepted. If no family matches, the text is partitioned into artificial
// sentence chunks. Empty or whitespace-only text yields no sections.
func (e *Extractor) ExtractSections(text string) []Section {
	var sections []Section

	for _, pattern := range sectionMarkerPatterns {
		sections = append(sections, e.extractByMarkers(text, pattern)...)
	}

	if len(sections) == 0 {
		sections = e.chunkBySentences(text)
	}

	return sections
}

// extractByMarkers finds all markers for one pattern family and slices the
// text between consecutive markers into section bodies.
func (e *Extractor) extractByMarkers(text string, pattern *regexp.Regexp) []Section {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var sections []Section
	for i, m := range matches {
		id := strings.TrimSpace(text[m[2]:m[3]])

		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(text[m[1]:end])

		if len(content) <= e.minSectionChars {
			continue
		}

		sections = append(sections, Section{
			ID:        id,
			Title:     "Section " + id,
			Content:   content,
			WordCount: len(strings.Fields(content)),
		})
	}

	return sections
}

// chunkBySentences partitions the text into roughly equal sentence chunks.
// The chunk size formula intentionally floors at five sentences, which can
// produce few, large chunks for short documents.
func (e *Extractor) chunkBySentences(text string) []Section {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	chunkSize := len(sentences) / e.fallbackChunks
	if chunkSize < 5 {
		chunkSize = 5
	}

	var sections []Section
	for i := 0; i < len(sentences); i += chunkSize {
		end := i + chunkSize
		if end > len(sentences) {
			end = len(sentences)
		}
		content := strings.Join(sentences[i:end], " ")
		part := strconv.Itoa(i/chunkSize + 1)

		sections = append(sections, Section{
			ID:        "Part_" + part,
			Title:     "Part " + part,
			Content:   content,
			WordCount: len(strings.Fields(content)),
		})
	}

	return sections
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// SplitSentences splits text on terminal punctuation followed by whitespace.
// Text with no sentence boundaries comes back as a single sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[last:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}
