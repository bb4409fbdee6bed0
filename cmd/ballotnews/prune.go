package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/ballotnews/internal/database"
)

// DefaultRetention is how long stored articles are kept by default.
const DefaultRetention = 30 * 24 * time.Hour

// NewPruneCmd creates the prune command.
func NewPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete articles not refreshed within the retention period",
		Long: `Prune deletes stored articles that no compilation has written within the
retention period. An article shared by several candidates is removed only
once no candidate references it any more.

Examples:
  # Delete articles older than 30 days
  ballotnews prune

  # Keep one week of articles
  ballotnews prune --older-than 168h`,
		Args: cobra.NoArgs,
		RunE: runPruneCmd,
	}

	cmd.Flags().Duration("older-than", DefaultRetention,
		"Delete articles last written longer ago than this")
	cmd.Flags().String("db-dir", "",
		"Directory of the article database (default: XDG data directory)")

	return cmd
}

// runPruneCmd executes the prune command.
func runPruneCmd(cmd *cobra.Command, _ []string) error {
	retention, err := cmd.Flags().GetDuration("older-than")
	if err != nil {
		return err
	}
	if retention <= 0 {
		return errors.New("--older-than must be positive")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir := flagString(cmd, "db-dir"); dir != "" {
		cfg.DBDir = dir
	}

	store, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	cutoff := time.Now().Add(-retention)
	removed, err := store.DeleteOlderThan(cmd.Context(), cutoff)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d article(s) last written before %s\n",
		removed, cutoff.Format("2006-01-02 15:04:05"))
	return nil
}
