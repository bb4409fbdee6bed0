package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/ballotnews/internal/crawler"
	"github.com/nao1215/ballotnews/internal/model"
)

// Decider decides whether a URL may be crawled and fetches it.
// *crawler.Gatekeeper implements it.
type Decider interface {
	Decide(ctx context.Context, rawURL string) crawler.Decision
}

// RelevanceChecker judges whether content is about a candidate.
// *relevance.Filter implements it.
type RelevanceChecker interface {
	IsRelevant(ctx context.Context, content, candidateName string, partyName *string) (bool, error)
}

// ArticleProcessor derives the abbreviated and summarized content.
// *processor.Processor implements it.
type ArticleProcessor interface {
	Process(article *model.Article) error
}

// Sink persists an article for a candidate.
// *database.ArticleStore implements it.
type Sink interface {
	Store(ctx context.Context, candidateID, runID string, article *model.Article) error
}

// StageOption configures the logger of a stage.
type StageOption func(*stageBase)

// WithStageLogger sets a custom logger for a stage.
func WithStageLogger(logger *slog.Logger) StageOption {
	return func(b *stageBase) {
		b.logger = logger
	}
}

// stageBase holds what every stage shares.
type stageBase struct {
	logger *slog.Logger
}

func newStageBase(opts []StageOption) stageBase {
	b := stageBase{logger: slog.Default()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GatekeeperStage applies crawl policy, fetches the page and extracts it.
type GatekeeperStage struct {
	stageBase
	decider Decider
}

// NewGatekeeperStage creates the politeness stage.
func NewGatekeeperStage(decider Decider, opts ...StageOption) *GatekeeperStage {
	return &GatekeeperStage{
		stageBase: newStageBase(opts),
		decider:   decider,
	}
}

// Name returns the stage name.
func (s *GatekeeperStage) Name() string {
	return "gatekeeper"
}

// Do fetches the page. A denied URL ends Denied and an allowed URL without
// text ends ExtractFailed.
// Publisher and date found in the page metadata fill the ones discovery
// did not provide.
func (s *GatekeeperStage) Do(ctx context.Context, run *ArticleRun) error {
	d := s.decider.Decide(ctx, run.Article.URL)
	// A wait cut short by cancellation ends the run, not just this URL.
	if d.Err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	run.Article.Title = d.Article.Title
	run.Article.SetContent(d.Article.Content)
	run.Meta = d.Meta

	if !d.Allowed {
		s.logger.Info("url denied", "url", run.Article.URL, "error", d.Err)
		run.finish(model.OutcomeDenied, d.Err)
		return nil
	}

	if run.Article.Publisher == nil {
		run.Article.Publisher = d.Meta.Publisher()
	}
	if run.Article.PublishedDate == nil {
		run.Article.PublishedDate = d.Meta.PublishedDate()
	}

	if !run.Article.HasContent() {
		err := d.Err
		if err == nil {
			err = ErrNoContent
		}
		s.logger.Info("no content", "url", run.Article.URL, "error", err)
		run.finish(model.OutcomeExtractFailed, err)
		return nil
	}

	return nil
}

// RelevanceStage drops articles that are not about the candidate.
type RelevanceStage struct {
	stageBase
	checker RelevanceChecker
}

// NewRelevanceStage creates the relevance stage.
func NewRelevanceStage(checker RelevanceChecker, opts ...StageOption) *RelevanceStage {
	return &RelevanceStage{
		stageBase: newStageBase(opts),
		checker:   checker,
	}
}

// Name returns the stage name.
func (s *RelevanceStage) Name() string {
	return "relevance"
}

// Do ends the article Irrelevant when the filter rejects it or fails.
func (s *RelevanceStage) Do(ctx context.Context, run *ArticleRun) error {
	relevant, err := s.checker.IsRelevant(ctx, run.Article.Content, run.Candidate.Name, run.Candidate.Party)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		s.logger.Warn("relevance check failed", "url", run.Article.URL, "error", err)
		run.finish(model.OutcomeIrrelevant, err)
		return nil
	}
	if !relevant {
		s.logger.Info("article not relevant",
			"url", run.Article.URL,
			"candidate", run.Candidate.Name,
		)
		run.finish(model.OutcomeIrrelevant, ErrNotRelevant)
	}
	return nil
}

// ProcessStage derives the abbreviated and summarized content.
type ProcessStage struct {
	stageBase
	processor ArticleProcessor
}

// NewProcessStage creates the processing stage.
func NewProcessStage(processor ArticleProcessor, opts ...StageOption) *ProcessStage {
	return &ProcessStage{
		stageBase: newStageBase(opts),
		processor: processor,
	}
}

// Name returns the stage name.
func (s *ProcessStage) Name() string {
	return "process"
}

// Do always ends Processed. A summarization failure leaves an empty summary
// and is kept in the result for the report.
func (s *ProcessStage) Do(_ context.Context, run *ArticleRun) error {
	err := s.processor.Process(&run.Article)
	if err != nil {
		s.logger.Debug("summary unavailable", "url", run.Article.URL, "error", err)
	}
	run.finish(model.OutcomeProcessed, err)
	return nil
}

// StoreStage writes the article to the sink.
type StoreStage struct {
	stageBase
	sink Sink
}

// NewStoreStage creates the storage stage.
func NewStoreStage(sink Sink, opts ...StageOption) *StoreStage {
	return &StoreStage{
		stageBase: newStageBase(opts),
		sink:      sink,
	}
}

// Name returns the stage name.
func (s *StoreStage) Name() string {
	return "store"
}

// Do ends the article Stored or StoreFailed.
func (s *StoreStage) Do(ctx context.Context, run *ArticleRun) error {
	if err := s.sink.Store(ctx, run.Candidate.ID, run.RunID, &run.Article); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		s.logger.Error("failed to store article", "url", run.Article.URL, "error", err)
		run.finish(model.OutcomeStoreFailed, fmt.Errorf("store article: %w", err))
		return nil
	}
	run.finish(model.OutcomeStored, nil)
	return nil
}

// NewArticlePipeline assembles the standard gatekeeper, relevance, process
// and store stages.
func NewArticlePipeline(
	decider Decider,
	checker RelevanceChecker,
	processor ArticleProcessor,
	sink Sink,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := New(WithLogger(logger))
	p.AddStages(
		NewGatekeeperStage(decider, WithStageLogger(logger)),
		NewRelevanceStage(checker, WithStageLogger(logger)),
		NewProcessStage(processor, WithStageLogger(logger)),
		NewStoreStage(sink, WithStageLogger(logger)),
	)
	return p
}
