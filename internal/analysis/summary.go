package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/civiclens/feedback-engine/internal/intent"
	"github.com/civiclens/feedback-engine/internal/sentiment"
)

// RelevanceStats counts comments by relevance band.
type RelevanceStats struct {
	TotalComments      int `json:"total_comments"`
	RelevantComments   int `json:"relevant_comments"`
	HighlyRelevant     int `json:"highly_relevant"`
	ModeratelyRelevant int `json:"moderately_relevant"`
}

// Summary aggregates a batch of analysis results around the loaded
// document: relevance bands, adjusted-sentiment and intent distributions,
// and which sections drew feedback.
type Summary struct {
	Text                  string                  `json:"text"`
	RelevanceStats        RelevanceStats          `json:"relevance_stats"`
	SentimentDistribution map[sentiment.Label]int `json:"sentiment_distribution"`
	IntentDistribution    map[intent.Category]int `json:"intent_distribution"`
	SectionFeedback       map[string][]int        `json:"section_feedback"`
}

// BuildSummary computes document-focused aggregate statistics over batch
// results. Distributions cover relevant comments only (score > 0.3),
// matching how the dashboard reports document feedback.
func BuildSummary(docTitle string, results []Result) Summary {
	summary := Summary{
		RelevanceStats:        RelevanceStats{TotalComments: len(results)},
		SentimentDistribution: make(map[sentiment.Label]int),
		IntentDistribution:    make(map[intent.Category]int),
		SectionFeedback:       make(map[string][]int),
	}

	if len(results) == 0 {
		summary.Text = "No comments analyzed."
		return summary
	}

	for _, r := range results {
		score := r.Relevance.Score
		if score > 0.7 {
			summary.RelevanceStats.HighlyRelevant++
		} else if score > 0.5 {
			summary.RelevanceStats.ModeratelyRelevant++
		}
		if score <= 0.3 {
			continue
		}

		summary.RelevanceStats.RelevantComments++
		summary.SentimentDistribution[r.AdjustedSentiment.Label]++
		summary.IntentDistribution[r.Intent.Primary]++
		if r.Relevance.Section != nil {
			title := r.Relevance.Section.Title
			summary.SectionFeedback[title] = append(summary.SectionFeedback[title], r.CommentID)
		}
	}

	summary.Text = summaryText(docTitle, summary)
	return summary
}

func summaryText(docTitle string, s Summary) string {
	if s.RelevanceStats.RelevantComments == 0 {
		return "No highly relevant comments found for the main document."
	}

	total := s.RelevanceStats.TotalComments
	relevant := s.RelevanceStats.RelevantComments
	pct := float64(relevant) / float64(total) * 100

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of %d comments regarding %q:\n", total, docTitle)
	fmt.Fprintf(&b, "- %d comments (%.1f%%) are relevant to the document\n", relevant, pct)

	if len(s.SentimentDistribution) > 0 {
		fmt.Fprintf(&b, "- Sentiment distribution: %s\n", formatDistribution(s.SentimentDistribution))
	}
	if len(s.IntentDistribution) > 0 {
		fmt.Fprintf(&b, "- Comment types: %s\n", formatDistribution(s.IntentDistribution))
	}
	if len(s.SectionFeedback) > 0 {
		fmt.Fprintf(&b, "- Most discussed sections: %s", strings.Join(topSections(s.SectionFeedback, 5), ", "))
	}

	return strings.TrimSpace(b.String())
}

func formatDistribution[K ~string](dist map[K]int) string {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, dist[K(k)]))
	}
	return strings.Join(parts, ", ")
}

// topSections returns the section titles with the most feedback, busiest
// first, alphabetical on ties.
func topSections(feedback map[string][]int, n int) []string {
	titles := make([]string, 0, len(feedback))
	for title := range feedback {
		titles = append(titles, title)
	}
	sort.Slice(titles, func(a, b int) bool {
		if len(feedback[titles[a]]) != len(feedback[titles[b]]) {
			return len(feedback[titles[a]]) > len(feedback[titles[b]])
		}
		return titles[a] < titles[b]
	})
	if len(titles) > n {
		titles = titles[:n]
	}
	return titles
}

// WordCount is one entry of a word-frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

var wordPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)

// Common words excluded from frequency tables.
var frequencyStopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "this": true, "that": true,
	"these": true, "those": true, "not": true, "its": true, "they": true,
}

// KeywordFrequency counts word occurrences across comments, skipping short
// and common words. The result feeds word-frequency visualizations; sorted
// by count descending, alphabetical on ties.
func KeywordFrequency(texts []string, topN int) []WordCount {
	if topN <= 0 {
		topN = 20
	}

	counts := make(map[string]int)
	for _, text := range texts {
		cleaned := strings.ToLower(sentiment.CleanText(text))
		for _, word := range wordPattern.FindAllString(cleaned, -1) {
			if frequencyStopWords[word] {
				continue
			}
			counts[word]++
		}
	}

	table := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		table = append(table, WordCount{Word: word, Count: count})
	}
	sort.Slice(table, func(a, b int) bool {
		if table[a].Count != table[b].Count {
			return table[a].Count > table[b].Count
		}
		return table[a].Word < table[b].Word
	})

	if len(table) > topN {
		table = table[:topN]
	}
	return table
}
