package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/ballotnews/internal/config"
	"github.com/nao1215/ballotnews/internal/crawler"
	"github.com/nao1215/ballotnews/internal/database"
	"github.com/nao1215/ballotnews/internal/discovery"
	"github.com/nao1215/ballotnews/internal/extractor"
	"github.com/nao1215/ballotnews/internal/model"
	"github.com/nao1215/ballotnews/internal/pipeline"
	"github.com/nao1215/ballotnews/internal/processor"
	"github.com/nao1215/ballotnews/internal/relevance"
	"github.com/nao1215/ballotnews/internal/report"
	"github.com/nao1215/ballotnews/internal/salience"
	"github.com/nao1215/ballotnews/internal/transport"
)

// app holds the components shared by every compile run of one process.
//
// Design decision: The gatekeeper, and with it the host clock, lives as long
// as the app. Scheduled runs therefore keep honouring crawl delays recorded
// by the previous run.
type app struct {
	cfg    *config.Config
	store  *database.ArticleStore
	batch  *pipeline.BatchProcessor
	logger *slog.Logger
}

// newApp wires the compile pipeline described by cfg.
// The caller must Close the returned app.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	client, err := transport.New(
		transport.WithConnectTimeout(cfg.ConnectTimeout),
		transport.WithReadTimeout(cfg.ReadTimeout),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithMaxBodySize(maxBodySize(cfg)),
		transport.WithProxy(cfg.ProxyAddress),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	gatekeeper := crawler.NewGatekeeper(client,
		extractor.New(
			extractor.WithMaxBodySize(maxBodySize(cfg)),
			extractor.WithLogger(logger),
		),
		crawler.WithMaxWait(cfg.MaxCrawlDelay),
		crawler.WithLogger(logger),
	)

	languageOpts := []salience.LanguageOption{
		salience.WithAPIKey(cfg.LanguageAPIKey),
		salience.WithRateLimit(cfg.LanguageRateLimit),
		salience.WithLogger(logger),
	}
	if cfg.LanguageEndpoint != "" {
		languageOpts = append(languageOpts, salience.WithEndpoint(cfg.LanguageEndpoint))
	}
	language, err := salience.NewLanguageClient(ctx, languageOpts...)
	if err != nil {
		return nil, err
	}
	filter := relevance.New(language,
		relevance.WithCandidateThreshold(cfg.CandidateThreshold),
		relevance.WithPartyThreshold(cfg.PartyThreshold),
		relevance.WithLogger(logger),
	)

	proc := processor.New(
		processor.WithWordLimit(cfg.WordLimit),
		processor.WithSummarizer(processor.NewSummarizer(
			processor.WithSentenceCount(cfg.SummarySentences),
			processor.WithStemming(cfg.Stemming),
			processor.WithSummarizerLogger(logger),
		)),
		processor.WithLogger(logger),
	)

	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database opened", "path", store.Path())

	compilerOpts := []pipeline.CompilerOption{pipeline.WithCompilerLogger(logger)}
	if cfg.StoreDenied {
		compilerOpts = append(compilerOpts, pipeline.WithStoreDenied(store))
	}
	compiler := pipeline.NewCompiler(provider,
		pipeline.NewArticlePipeline(gatekeeper, filter, proc, store, logger),
		compilerOpts...,
	)

	return &app{
		cfg:   cfg,
		store: store,
		batch: pipeline.NewBatchProcessor(compiler,
			pipeline.WithConcurrency(cfg.Concurrency),
			pipeline.WithBatchLogger(logger),
		),
		logger: logger,
	}, nil
}

// newProvider creates the discovery provider selected by cfg.Provider.
func newProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (discovery.Provider, error) {
	opts := []discovery.Option{
		discovery.WithMaxResults(cfg.MaxResults),
		discovery.WithLogger(logger),
	}

	switch cfg.Provider {
	case config.ProviderCustomSearch:
		opts = append(opts, discovery.WithAPIKey(cfg.SearchAPIKey))
		if cfg.SearchEndpoint != "" {
			opts = append(opts, discovery.WithEndpoint(cfg.SearchEndpoint))
		}
		return discovery.NewCustomSearch(ctx, cfg.SearchCX, opts...)
	case config.ProviderFeed:
		return discovery.NewFeed(cfg.FeedURL, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
}

// maxBodySize returns the configured body limit, or the default when unset.
func maxBodySize(cfg *config.Config) int64 {
	if cfg.MaxBodySize > 0 {
		return cfg.MaxBodySize
	}
	return config.DefaultMaxBodySize
}

// Close releases the database.
func (a *app) Close() error {
	return a.store.Close()
}

// compile runs every configured candidate and writes one report per
// candidate, in configuration order, to the report destination.
//
// Candidates whose discovery failed are reported, not returned as errors.
// The returned error is a cancellation or an output failure.
func (a *app) compile(ctx context.Context, stdout io.Writer) error {
	reports, batchErr := a.batch.ProcessBatch(ctx, a.cfg.Candidates)

	if err := writeReports(a.cfg, stdout, reports); err != nil {
		return err
	}
	return batchErr
}

// writeReports writes the finished reports in the configured format.
func writeReports(cfg *config.Config, stdout io.Writer, reports []*model.CandidateReport) error {
	format, err := report.ParseFormat(cfg.ReportFormat)
	if err != nil {
		return err
	}

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := report.NewWriter(format, output, cfg.Verbose)
	var errs []error
	for _, r := range reports {
		// Candidates never started before cancellation have no report.
		if r == nil {
			continue
		}
		if _, err := writer.Write(r); err != nil {
			errs = append(errs, fmt.Errorf("failed to write report for %s: %w", r.Candidate.Name, err))
		}
	}
	return errors.Join(errs...)
}

// openOutput returns the file at path, created with its parent directories,
// or stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports quote article text; keep them owner-readable only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Best effort close after writes
}
