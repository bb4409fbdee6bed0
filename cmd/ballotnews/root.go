package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ballotnews.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ballotnews",
		Short: "Compile news articles about election candidates",
		Long: `ballotnews compiles news articles about election candidates.

For every candidate it discovers articles through a search provider, fetches
each page while honouring robots.txt and crawl delays, keeps the articles in
which the candidate (or their party) is salient, and stores the article text
together with an abbreviation and an extractive summary.

API keys are read from the environment (BALLOTNEWS_SEARCH_KEY,
BALLOTNEWS_SEARCH_CX, BALLOTNEWS_LANGUAGE_KEY) or from a .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .ballotnews in current or home directory)")
	cmd.PersistentFlags().String("env-file", ".env",
		"Load environment variables from this file when it exists")

	// Add subcommands
	cmd.AddCommand(NewCompileCmd())
	cmd.AddCommand(NewScheduleCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewPruneCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
