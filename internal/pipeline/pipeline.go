package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/ballotnews/internal/extractor"
	"github.com/nao1215/ballotnews/internal/model"
)

// StageResult is the verdict of the last stage that ran for an article.
type StageResult struct {
	// Outcome is the state the article reached.
	Outcome model.Outcome

	// Err explains a failed or degraded outcome. It may be set on a
	// non-terminal outcome, e.g. Processed with an empty summary.
	Err error
}

// ArticleRun carries one discovered article through the stages.
type ArticleRun struct {
	// RunID identifies the compile run.
	RunID string

	// Candidate is who the article is compiled for.
	Candidate model.Candidate

	// Article is the article being built. Discovery fills URL, Priority and
	// optionally Publisher and PublishedDate.
	Article model.Article

	// Meta holds page metadata once the page was fetched.
	Meta extractor.Metadata

	// Result is the verdict of the last stage.
	Result StageResult
}

// NewArticleRun creates a run for a discovered article.
func NewArticleRun(runID string, candidate model.Candidate, article model.Article) *ArticleRun {
	return &ArticleRun{
		RunID:     runID,
		Candidate: candidate,
		Article:   article,
		Result:    StageResult{Outcome: model.OutcomeDiscovered},
	}
}

// finish records a terminal or intermediate verdict.
func (r *ArticleRun) finish(outcome model.Outcome, err error) {
	r.Result = StageResult{Outcome: outcome, Err: err}
}

// Stage defines the interface that all pipeline stages must implement.
//
// Design decision: We use an interface rather than function types because
// stages carry their collaborators (gatekeeper, filter, store) and a Name
// for logging.
type Stage interface {
	// Do executes the stage and records its verdict in run.Result.
	// It returns an error only when the whole run must stop, which in
	// practice means the context was cancelled.
	Do(ctx context.Context, run *ArticleRun) error

	// Name returns the stage's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of stages for one article.
type Pipeline struct {
	// stages contains the ordered list of stages to execute.
	stages []Stage

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Stages should be added using AddStage after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: make([]Stage, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStage appends a stage to the pipeline.
// Stages are executed in the order they are added.
func (p *Pipeline) AddStage(stage Stage) {
	p.stages = append(p.stages, stage)
}

// AddStages appends multiple stages to the pipeline.
func (p *Pipeline) AddStages(stages ...Stage) {
	p.stages = append(p.stages, stages...)
}

// Execute runs the stages in sequence and stops at the first terminal
// outcome.
//
// Design decision: We check ctx.Done() before each stage rather than
// during, because stages handle their own timeouts.
//
// It returns a non-nil error only when the context is done or a stage
// reports that the run must stop.
func (p *Pipeline) Execute(ctx context.Context, run *ArticleRun) error {
	for _, stage := range p.stages {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"stage", stage.Name(),
				"url", run.Article.URL,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		if err := stage.Do(ctx, run); err != nil {
			p.logger.Error("stage aborted",
				"stage", stage.Name(),
				"url", run.Article.URL,
				"error", err,
			)
			return err
		}

		p.logger.Debug("stage completed",
			"stage", stage.Name(),
			"url", run.Article.URL,
			"outcome", run.Result.Outcome,
		)

		if run.Result.Outcome.IsTerminal() {
			return nil
		}
	}

	return nil
}

// StageCount returns the number of stages in the pipeline.
func (p *Pipeline) StageCount() int {
	return len(p.stages)
}

// StageNames returns the names of all stages in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}
