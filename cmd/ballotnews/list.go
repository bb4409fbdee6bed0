package main

import (
	"context"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/nao1215/ballotnews/internal/database"
	"github.com/nao1215/ballotnews/internal/model"
	"github.com/nao1215/ballotnews/internal/report"
)

// NewListCmd creates the list command.
// This command reads compiled articles back from the database.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [candidate-id]",
		Short: "List compiled candidates or their stored articles",
		Long: `List shows what earlier compilations stored in the article database.

Without an argument it lists every candidate with a stored article. With a
candidate ID (the lowercase, dash separated name, e.g. "jane-doe") it prints
that candidate's articles in priority order, most recent first within the
same priority.

Examples:
  # List all compiled candidates
  ballotnews list

  # Show the stored articles of one candidate
  ballotnews list jane-doe

  # The same as JSON
  ballotnews list -f json jane-doe`,
		Args: cobra.MaximumNArgs(1),
		RunE: runListCmd,
	}

	cmd.Flags().StringP("format", "f", "text",
		"Output format for articles (text, json or markdown)")
	cmd.Flags().String("db-dir", "",
		"Directory of the article database (default: XDG data directory)")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir := flagString(cmd, "db-dir"); dir != "" {
		cfg.DBDir = dir
	}

	// Validate the format before opening the database.
	format, err := report.ParseFormat(flagString(cmd, "format"))
	if err != nil {
		return err
	}

	store, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("failed to open database (run 'ballotnews compile' first): %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if len(args) == 0 {
		return listCandidates(ctx, store, cmd.OutOrStdout())
	}
	return listArticles(ctx, store, model.CandidateID(args[0]), report.NewWriter(format, cmd.OutOrStdout(), true))
}

// listCandidates prints every candidate with stored articles.
func listCandidates(ctx context.Context, store *database.ArticleStore, w io.Writer) error {
	summaries, err := store.ListCandidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(w, "No compiled candidates found in database")
		return nil
	}

	idWidth := len("Candidate")
	for _, s := range summaries {
		idWidth = max(idWidth, runewidth.StringWidth(s.ID))
	}

	fmt.Fprintf(w, "Compiled candidates (%d):\n\n", len(summaries))
	fmt.Fprintf(w, "  %s  %-8s  %s\n", runewidth.FillRight("Candidate", idWidth), "Articles", "Last Modified")
	for _, s := range summaries {
		fmt.Fprintf(w, "  %s  %-8d  %s\n",
			runewidth.FillRight(s.ID, idWidth),
			s.Articles,
			s.LastModified.Local().Format("2006-01-02 15:04:05"),
		)
	}
	return nil
}

// listArticles writes the stored articles of one candidate.
func listArticles(ctx context.Context, store *database.ArticleStore, candidateID string, writer report.Writer) error {
	records, err := store.ListByCandidate(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}
	_, err = writer.WriteRecords(candidateID, records)
	return err
}
