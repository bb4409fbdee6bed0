package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/ballotnews/internal/discovery"
	"github.com/nao1215/ballotnews/internal/model"
)

// Compiler compiles the articles of one candidate: discovery followed by the
// pipeline for each discovered URL, one URL at a time.
type Compiler struct {
	// provider discovers candidate articles.
	provider discovery.Provider

	// pipeline runs the stages for each URL.
	pipeline *Pipeline

	// deniedSink stores Denied and ExtractFailed articles when set.
	deniedSink Sink

	// newRunID generates run identifiers.
	newRunID func() string

	// now returns the current time for report timestamps.
	now func() time.Time

	// logger is used for run-level logging.
	logger *slog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithCompilerLogger sets a custom logger for the compiler.
func WithCompilerLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithStoreDenied stores articles that ended Denied or ExtractFailed with
// their empty content. By default they are only reported.
func WithStoreDenied(sink Sink) CompilerOption {
	return func(c *Compiler) {
		c.deniedSink = sink
	}
}

// WithRunIDGenerator overrides how run identifiers are generated.
func WithRunIDGenerator(gen func() string) CompilerOption {
	return func(c *Compiler) {
		c.newRunID = gen
	}
}

// WithNow overrides the clock used for report timestamps.
func WithNow(now func() time.Time) CompilerOption {
	return func(c *Compiler) {
		c.now = now
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(provider discovery.Provider, p *Pipeline, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		provider: provider,
		pipeline: p,
		newRunID: uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// CompileCandidate discovers articles for candidate and runs each of them
// through the pipeline in priority order.
//
// A failing URL never ends the run. The returned error is non-nil only when
// discovery failed or ctx was cancelled; the report is returned either way
// and holds the results gathered so far.
func (c *Compiler) CompileCandidate(ctx context.Context, candidate model.Candidate) (*model.CandidateReport, error) {
	report := model.NewCandidateReport(c.newRunID(), candidate, c.now())
	logger := c.logger.With("candidate", candidate.Name, "run_id", report.RunID)

	articles, err := c.provider.Discover(ctx, candidate.Name)
	if err != nil {
		logger.Error("discovery failed", "error", err)
		report.Error = err.Error()
		report.CompletedAt = c.now()
		return report, fmt.Errorf("discover articles for %s: %w", candidate.Name, err)
	}
	logger.Info("articles discovered", "count", len(articles))

	for i, article := range articles {
		if err := ctx.Err(); err != nil {
			return c.abort(report, logger, err)
		}

		logger.Debug("compiling article",
			"url", article.URL,
			"index", i+1,
			"total", len(articles),
		)

		run := NewArticleRun(report.RunID, candidate, article)
		if err := c.pipeline.Execute(ctx, run); err != nil {
			return c.abort(report, logger, err)
		}
		c.storeDenied(ctx, run, logger)

		report.AddResult(resultOf(run))
	}

	report.CompletedAt = c.now()
	logger.Info("candidate compiled",
		"stored", report.Count(model.OutcomeStored),
		"denied", report.Count(model.OutcomeDenied),
		"irrelevant", report.Count(model.OutcomeIrrelevant),
		"elapsed", report.Duration(),
	)
	return report, nil
}

// abort closes the report of a cancelled run.
func (c *Compiler) abort(report *model.CandidateReport, logger *slog.Logger, err error) (*model.CandidateReport, error) {
	logger.Warn("compilation cancelled", "completed", len(report.Results), "error", err)
	report.Error = err.Error()
	report.CompletedAt = c.now()
	return report, err
}

// storeDenied writes an article dropped by the gatekeeper when configured to.
func (c *Compiler) storeDenied(ctx context.Context, run *ArticleRun, logger *slog.Logger) {
	if c.deniedSink == nil {
		return
	}
	switch run.Result.Outcome {
	case model.OutcomeDenied, model.OutcomeExtractFailed:
	default:
		return
	}
	if err := c.deniedSink.Store(ctx, run.Candidate.ID, run.RunID, &run.Article); err != nil {
		logger.Warn("failed to store denied article", "url", run.Article.URL, "error", err)
	}
}

// resultOf converts a finished run into its report entry.
func resultOf(run *ArticleRun) model.ArticleResult {
	res := model.ArticleResult{
		URL:      run.Article.URL,
		Priority: run.Article.Priority,
		Outcome:  run.Result.Outcome,
	}
	if run.Result.Err != nil {
		res.Reason = run.Result.Err.Error()
	}
	switch run.Result.Outcome {
	case model.OutcomeDenied, model.OutcomeDiscovered:
	default:
		article := run.Article
		res.Article = &article
	}
	return res
}
