package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/ballotnews/internal/config"
)

//go:embed templates/ballotnews.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ballotnews configuration file",
		Long: `Initialize creates a new .ballotnews configuration file in the current directory.

The generated file includes:
- A commented list of example candidates
- Default relevance thresholds, timeouts and summary settings
- Documentation for all available options

API keys are not stored in this file. Set BALLOTNEWS_SEARCH_KEY,
BALLOTNEWS_SEARCH_CX and BALLOTNEWS_LANGUAGE_KEY in the environment or in
a .env file instead.

Examples:
  # Create .ballotnews in current directory
  ballotnews init

  # Create config file at a specific path
  ballotnews init -o myconfig.yaml

  # Force overwrite existing file
  ballotnews init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/ballotnews.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - The candidates to compile articles for")
	fmt.Fprintln(out, "  - The discovery provider and search engine ID")
	fmt.Fprintln(out, "  - Relevance thresholds and summary length")
	fmt.Fprintln(out, "\nThen export BALLOTNEWS_SEARCH_KEY and BALLOTNEWS_LANGUAGE_KEY and run 'ballotnews compile'.")

	return nil
}
