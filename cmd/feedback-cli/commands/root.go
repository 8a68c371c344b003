// Package commands implements the feedback CLI command tree.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/civiclens/feedback-engine/cmd/feedback-cli/ui"
	"github.com/civiclens/feedback-engine/internal/config"
	"github.com/civiclens/feedback-engine/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "feedback-cli",
	Short: "Analyze stakeholder feedback against a policy document",
	Long: `The feedback CLI loads a policy or legal document, scores stakeholder
comments for relevance against its sections, classifies intent, and adjusts
sentiment by document context. Results can be exported as CSV or saved to
the run database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			ServiceName: cfg.Observability.ServiceName,
		})

		ui.Init(noColor)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
