package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/civiclens/feedback-engine/cmd/feedback-cli/ui"
	"github.com/civiclens/feedback-engine/internal/document"
)

var (
	sectionsDocPath string
	sectionsVerbose bool
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Extract and display the sections of a document",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(sectionsDocPath)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}

		extractor := document.NewExtractor(document.ExtractorConfig{
			MinSectionChars: cfg.Analysis.MinSectionChars,
		})
		sections := extractor.ExtractSections(string(text))
		if len(sections) == 0 {
			ui.Warning("No sections extracted")
			return nil
		}

		ui.Section(fmt.Sprintf("Sections (%d)", len(sections)))
		rows := make([][]string, 0, len(sections))
		for _, s := range sections {
			row := []string{s.ID, s.Title, strconv.Itoa(s.WordCount)}
			rows = append(rows, row)
		}
		ui.Table([]string{"ID", "Title", "Words"}, rows)

		if sectionsVerbose {
			for _, s := range sections {
				ui.Section(s.Title)
				ui.Info("%s", s.Content)
			}
		}
		return nil
	},
}

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsDocPath, "document", "d", "", "path to the document text file (required)")
	sectionsCmd.Flags().BoolVar(&sectionsVerbose, "full", false, "print full section content")
	_ = sectionsCmd.MarkFlagRequired("document")

	rootCmd.AddCommand(sectionsCmd)
}
