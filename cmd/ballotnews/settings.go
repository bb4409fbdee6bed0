package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/ballotnews/internal/config"
	"github.com/nao1215/ballotnews/internal/log"
	"github.com/nao1215/ballotnews/internal/model"
)

// partySeparator splits "Name | Party" lines in a candidates file.
const partySeparator = "|"

// loadConfig builds a Config from, in increasing precedence: defaults, the
// configuration file, the environment (including the .env file) and the
// global flags. Command specific flags are applied by the caller.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	if envFile := flagString(cmd, "env-file"); envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	// If the user explicitly specified a config file path, error if not found.
	// Otherwise silently continue with defaults when no file exists.
	cfg.ConfigFilePath = flagString(cmd, "config")
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.ApplyEnv()

	cfg.Verbose = flagBool(cmd, "verbose")
	cfg.LogJSON = flagBool(cmd, "log-json")
	return cfg, nil
}

// flagBool reads a bool flag, including inherited persistent flags.
// A flag that is not defined reads as false.
func flagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

// flagString reads a string flag, including inherited persistent flags.
// A flag that is not defined reads as "".
func flagString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return v
}

// setupLogger creates the secure logger selected by the global flags and
// installs it as the slog default.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := log.New(w, cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)
	return logger
}

// addCompileFlags registers the flags shared by compile and schedule.
func addCompileFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	// Candidate flags
	flags.StringP("candidates", "l", "",
		`File with one candidate per line ("Name" or "Name | Party")`)
	flags.StringP("party", "p", "",
		"Party of the candidates given as arguments")

	// Discovery flags
	flags.String("provider", config.ProviderCustomSearch,
		"Article discovery provider (customsearch or feed)")
	flags.String("feed-url", "",
		`Feed URL template for the feed provider; "{query}" is replaced by the candidate name`)
	flags.IntP("max-results", "n", config.DefaultMaxResults,
		"Number of search results per candidate (1-10)")

	// Crawl flags
	flags.Duration("connect-timeout", config.DefaultConnectTimeout,
		"Timeout for establishing each connection")
	flags.DurationP("read-timeout", "t", config.DefaultReadTimeout,
		"Timeout for each wait on response data")
	flags.Duration("max-crawl-delay", config.DefaultMaxCrawlDelay,
		"Longest robots.txt crawl delay to wait out")
	flags.String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	flags.StringP("proxy", "x", "",
		"SOCKS5 proxy address (host:port)")

	// Relevance and summary flags
	flags.Float64("candidate-threshold", config.DefaultCandidateThreshold,
		"Minimum salience of the candidate's name (0-1)")
	flags.Float64("party-threshold", config.DefaultPartyThreshold,
		"Minimum salience of the candidate's party (0-1)")
	flags.Int("words", config.DefaultWordLimit,
		"Length of the abbreviated content in words")
	flags.Int("sentences", config.DefaultSummarySentences,
		"Number of sentences in each summary")
	flags.Bool("stemming", false,
		"Stem words before comparing sentences")

	// Run flags
	flags.IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of candidates compiled concurrently")
	flags.String("db-dir", "",
		"Directory of the article database (default: XDG data directory)")
	flags.Bool("store-denied", false,
		"Also store articles that robots.txt denied or that could not be fetched")

	// Report flags
	flags.StringP("format", "f", "text",
		"Report format (text, json or markdown)")
	flags.StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// applyCompileFlags overrides cfg with every compile flag the user set.
// Candidates given on the command line replace the configured ones.
func applyCompileFlags(cmd *cobra.Command, args []string, cfg *config.Config) error {
	flags := cmd.Flags()

	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}
	set("provider", func() (e error) { cfg.Provider, e = flags.GetString("provider"); return })
	set("feed-url", func() (e error) { cfg.FeedURL, e = flags.GetString("feed-url"); return })
	set("max-results", func() (e error) { cfg.MaxResults, e = flags.GetInt("max-results"); return })
	set("connect-timeout", func() (e error) {
		cfg.ConnectTimeout, e = flags.GetDuration("connect-timeout")
		return
	})
	set("read-timeout", func() (e error) { cfg.ReadTimeout, e = flags.GetDuration("read-timeout"); return })
	set("max-crawl-delay", func() (e error) {
		cfg.MaxCrawlDelay, e = flags.GetDuration("max-crawl-delay")
		return
	})
	set("user-agent", func() (e error) { cfg.UserAgent, e = flags.GetString("user-agent"); return })
	set("proxy", func() (e error) { cfg.ProxyAddress, e = flags.GetString("proxy"); return })
	set("candidate-threshold", func() (e error) {
		cfg.CandidateThreshold, e = flags.GetFloat64("candidate-threshold")
		return
	})
	set("party-threshold", func() (e error) {
		cfg.PartyThreshold, e = flags.GetFloat64("party-threshold")
		return
	})
	set("words", func() (e error) { cfg.WordLimit, e = flags.GetInt("words"); return })
	set("sentences", func() (e error) { cfg.SummarySentences, e = flags.GetInt("sentences"); return })
	set("stemming", func() (e error) { cfg.Stemming, e = flags.GetBool("stemming"); return })
	set("concurrency", func() (e error) { cfg.Concurrency, e = flags.GetInt("concurrency"); return })
	set("db-dir", func() (e error) { cfg.DBDir, e = flags.GetString("db-dir"); return })
	set("store-denied", func() (e error) { cfg.StoreDenied, e = flags.GetBool("store-denied"); return })
	set("format", func() (e error) { cfg.ReportFormat, e = flags.GetString("format"); return })
	set("output", func() (e error) { cfg.ReportFile, e = flags.GetString("output"); return })
	if err != nil {
		return err
	}

	candidates, err := commandLineCandidates(cmd, args)
	if err != nil {
		return err
	}
	if len(candidates) > 0 {
		cfg.Candidates = candidates
	}
	return nil
}

// commandLineCandidates collects candidates from the arguments and the
// --candidates file.
func commandLineCandidates(cmd *cobra.Command, args []string) ([]model.Candidate, error) {
	party, err := cmd.Flags().GetString("party")
	if err != nil {
		return nil, err
	}

	var candidates []model.Candidate
	for _, name := range args {
		if strings.TrimSpace(name) == "" {
			continue
		}
		candidates = append(candidates, model.NewCandidate(name, model.StringPtr(strings.TrimSpace(party))))
	}

	path, err := cmd.Flags().GetString("candidates")
	if err != nil {
		return nil, err
	}
	if path != "" {
		fromFile, err := readCandidatesFile(path)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, fromFile...)
	}
	return candidates, nil
}

// readCandidatesFile reads one candidate per line. A line is "Name" or
// "Name | Party"; blank lines and lines starting with # are skipped.
func readCandidatesFile(path string) ([]model.Candidate, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided candidates path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("candidates file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open candidates file: %w", err)
	}
	defer f.Close()

	candidates, err := parseCandidates(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file %s: %w", path, err)
	}
	return candidates, nil
}

// parseCandidates parses the candidates file format from r.
func parseCandidates(r io.Reader) ([]model.Candidate, error) {
	var candidates []model.Candidate
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, party, _ := strings.Cut(line, partySeparator)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		candidates = append(candidates, model.NewCandidate(name, model.StringPtr(strings.TrimSpace(party))))
	}
	return candidates, scanner.Err()
}
