package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/ballotnews/internal/config"
)

// NewCompileCmd creates the compile command.
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [candidate-name...]",
		Short: "Compile news articles for candidates",
		Long: `Compile discovers, fetches, filters and summarizes news articles for each
candidate and stores the relevant ones in the article database.

For every discovered URL the compiler:
- Checks robots.txt for the wildcard user agent and waits out any crawl delay
- Fetches the page and strips navigation, ads and other boilerplate
- Keeps the article only if the candidate (or their party) is salient
- Stores the text with a 100 word abbreviation and a 3 sentence summary

Candidates come from the arguments, the --candidates file, or the
configuration file, in that order of preference.

Examples:
  # Compile articles for one candidate
  ballotnews compile "Jane Doe"

  # Compile for several candidates of one party
  ballotnews compile --party "Green Party" "Jane Doe" "John Roe"

  # Read candidates from a file ("Name | Party" per line)
  ballotnews compile --candidates candidates.txt

  # Discover articles from a news search feed instead of Custom Search
  ballotnews compile --provider feed \
    --feed-url "https://news.example.com/rss?q={query}" "Jane Doe"

  # Write a Markdown report
  ballotnews compile -f markdown -o reports/jane-doe.md "Jane Doe"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCompileCmd,
	}

	addCompileFlags(cmd)
	return cmd
}

// runCompileCmd executes the compile command.
func runCompileCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCompileConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCompile(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildCompileConfig loads and validates the configuration of a compile run.
func buildCompileConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyCompileFlags(cmd, args, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// runCompile compiles every configured candidate once.
// Progress goes to progress; the report goes to stdout or cfg.ReportFile.
func runCompile(ctx context.Context, cfg *config.Config, stdout, progress io.Writer, logger *slog.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(progress, "Compiling articles for %d candidate(s) (concurrency: %d)...\n",
		len(cfg.Candidates), cfg.Concurrency)
	startTime := time.Now()

	if err := a.compile(ctx, stdout); err != nil {
		return err
	}

	fmt.Fprintf(progress, "Compilation completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}
