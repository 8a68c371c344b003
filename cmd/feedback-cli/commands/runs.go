package commands

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/civiclens/feedback-engine/cmd/feedback-cli/ui"
	"github.com/civiclens/feedback-engine/internal/storage"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := storage.NewRunRepository(db).List(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			ui.Info("No saved runs")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, run := range runs {
			rows = append(rows, []string{
				run.ID.String(),
				run.DocumentTitle,
				strconv.Itoa(run.CommentCount),
				run.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		ui.Table([]string{"ID", "Document", "Comments", "Created"}, rows)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one saved run with its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id: %w", err)
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := storage.NewRunRepository(db).GetByID(cmd.Context(), runID)
		if err != nil {
			return err
		}
		results, err := storage.NewResultRepository(db).ListByRun(cmd.Context(), runID)
		if err != nil {
			return err
		}

		ui.Section(run.DocumentTitle)
		ui.Info("%s", run.Summary)

		rows := make([][]string, 0, len(results))
		for _, res := range results {
			rows = append(rows, []string{
				strconv.Itoa(res.CommentID),
				ui.SentimentColor(res.SentimentLabel)("%s", res.SentimentLabel),
				fmt.Sprintf("%.3f", res.RelevanceScore),
				res.IntentPrimary,
				res.TargetSection,
			})
		}
		ui.Table([]string{"#", "Sentiment", "Relevance", "Intent", "Section"}, rows)
		return nil
	},
}

func openDB(ctx context.Context) (*sql.DB, error) {
	return storage.Open(ctx, storage.OpenOptions{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.DatabaseDSN(),
		MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
	})
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
