package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/civiclens/feedback-engine/cmd/feedback-cli/ui"
	"github.com/civiclens/feedback-engine/internal/analysis"
	"github.com/civiclens/feedback-engine/internal/intent"
	"github.com/civiclens/feedback-engine/internal/report"
	"github.com/civiclens/feedback-engine/internal/sentiment"
	"github.com/civiclens/feedback-engine/internal/storage"
)

var (
	analyzeDocPath  string
	analyzeDocTitle string
	analyzeCSVPath  string
	analyzeColumn   string
	analyzeOutput   string
	analyzeSave     bool
	analyzeKeywords int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run batch analysis of comments against a document",
	Long: `Loads the document, extracts sections, builds the relevance index, and
analyzes every comment from the CSV file: base sentiment, relevance score,
intent category, and context-adjusted sentiment.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDocPath, "document", "d", "", "path to the document text file (required)")
	analyzeCmd.Flags().StringVar(&analyzeDocTitle, "title", "", "document title")
	analyzeCmd.Flags().StringVarP(&analyzeCSVPath, "comments", "f", "", "path to the comments CSV file (required)")
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "comment", "CSV column holding comment text")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write results CSV to this path")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run to the database")
	analyzeCmd.Flags().IntVar(&analyzeKeywords, "keywords", 10, "number of top keywords to display")
	_ = analyzeCmd.MarkFlagRequired("document")
	_ = analyzeCmd.MarkFlagRequired("comments")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	docText, err := os.ReadFile(analyzeDocPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	csvFile, err := os.Open(analyzeCSVPath)
	if err != nil {
		return fmt.Errorf("open comments CSV: %w", err)
	}
	comments, err := report.ReadComments(csvFile, analyzeColumn)
	csvFile.Close()
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		return fmt.Errorf("no comments found in %s", analyzeCSVPath)
	}

	session := newSession()

	spin := ui.NewSpinner("Extracting sections and building relevance index...")
	spin.Start()
	sections, err := session.SetDocument(ctx, string(docText), analyzeDocTitle)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	ui.Success("Document loaded: %d sections", sections)

	bar := ui.NewProgressBar(int64(len(comments)), "Analyzing")
	results, err := session.AnalyzeBatch(ctx, comments, func(done, total int) {
		bar.Set(int64(done))
	})
	bar.Finish()
	if err != nil {
		return fmt.Errorf("batch analysis: %w", err)
	}

	docTitle := analyzeDocTitle
	if doc := session.Document(); doc != nil {
		docTitle = doc.Title
	}
	summary := analysis.BuildSummary(docTitle, results)
	printSummary(summary, results)

	if analyzeOutput != "" {
		out, err := os.Create(analyzeOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		err = report.WriteResults(out, results)
		closeErr := out.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
		ui.Success("Results written to %s", analyzeOutput)
	}

	if analyzeSave {
		if err := saveRun(ctx, docTitle, sections, summary.Text, results); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	return nil
}

func newSession() *analysis.Session {
	var provider sentiment.Provider
	if cfg.Sentiment.Provider == "openai" {
		provider = sentiment.NewOpenAIProvider(cfg.Sentiment.OpenAIAPIKey, cfg.Sentiment.OpenAIModel)
	} else {
		provider = sentiment.NewLexiconProvider()
	}

	return analysis.NewSession(logger, provider, nil, analysis.SessionConfig{
		MaxWorkers:      cfg.Analysis.MaxWorkers,
		BatchTimeout:    cfg.Analysis.BatchTimeout,
		MinSectionChars: cfg.Analysis.MinSectionChars,
		MaxVocabulary:   cfg.Analysis.MaxVocabularyTerms,
	})
}

func printSummary(summary analysis.Summary, results []analysis.Result) {
	ui.Section("Analysis Summary")
	ui.Info("%s", summary.Text)

	stats := summary.RelevanceStats
	ui.Table(
		[]string{"Total", "Relevant", "Highly Relevant", "Moderately Relevant"},
		[][]string{{
			strconv.Itoa(stats.TotalComments),
			strconv.Itoa(stats.RelevantComments),
			strconv.Itoa(stats.HighlyRelevant),
			strconv.Itoa(stats.ModeratelyRelevant),
		}},
	)

	if len(summary.SentimentDistribution) > 0 {
		ui.Section("Sentiment (relevant comments)")
		labels := make([]string, 0, len(summary.SentimentDistribution))
		for label := range summary.SentimentDistribution {
			labels = append(labels, string(label))
		}
		sort.Strings(labels)
		for _, label := range labels {
			count := summary.SentimentDistribution[sentiment.Label(label)]
			ui.Info("  %s %d", ui.SentimentColor(label)("%-9s", label), count)
		}
	}

	if len(summary.IntentDistribution) > 0 {
		ui.Section("Intent (relevant comments)")
		categories := make([]string, 0, len(summary.IntentDistribution))
		for cat := range summary.IntentDistribution {
			categories = append(categories, string(cat))
		}
		sort.Strings(categories)
		for _, cat := range categories {
			ui.Info("  %-15s %d", cat, summary.IntentDistribution[intent.Category(cat)])
		}
	}

	if analyzeKeywords > 0 {
		texts := make([]string, 0, len(results))
		for _, r := range results {
			texts = append(texts, r.Comment)
		}
		words := analysis.KeywordFrequency(texts, analyzeKeywords)
		if len(words) > 0 {
			ui.Section("Top Keywords")
			for _, wc := range words {
				ui.Info("  %-20s %d", wc.Word, wc.Count)
			}
		}
	}

	degraded := 0
	for _, r := range results {
		if r.Degraded {
			degraded++
		}
	}
	if degraded > 0 {
		ui.Warning("%d comments used the degraded neutral sentiment default", degraded)
	}
}

func saveRun(ctx context.Context, docTitle string, sections int, summaryText string, results []analysis.Result) error {
	db, err := storage.Open(ctx, storage.OpenOptions{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.DatabaseDSN(),
		MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	run := &storage.AnalysisRun{
		ID:            uuid.New(),
		DocumentTitle: docTitle,
		SectionCount:  sections,
		CommentCount:  len(results),
		Summary:       summaryText,
		CreatedAt:     time.Now().UTC(),
	}

	if err := storage.NewRunRepository(db).Create(ctx, run); err != nil {
		return err
	}
	if err := storage.NewResultRepository(db).InsertBatch(ctx, run.ID, report.ToStored(results)); err != nil {
		return err
	}

	ui.Success("Run saved: %s", run.ID)
	return nil
}
