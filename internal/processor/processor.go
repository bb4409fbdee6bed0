package processor

import (
	"log/slog"

	"github.com/nao1215/ballotnews/internal/model"
)

// Processor fills in the derived fields of an article.
type Processor struct {
	wordLimit  int
	summarizer *Summarizer
	logger     *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithWordLimit sets the abbreviation length in words.
func WithWordLimit(n int) Option {
	return func(p *Processor) {
		p.wordLimit = n
	}
}

// WithSummarizer replaces the default summarizer.
func WithSummarizer(s *Summarizer) Option {
	return func(p *Processor) {
		p.summarizer = s
	}
}

// WithLogger sets the processor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		wordLimit: DefaultWordLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.summarizer == nil {
		p.summarizer = NewSummarizer(WithSummarizerLogger(p.logger))
	}
	return p
}

// Process sets AbbreviatedContent and SummarizedContent from the current
// Content. Both are always assigned; the returned error only explains an
// empty summary.
func (p *Processor) Process(article *model.Article) error {
	article.AbbreviatedContent = AbbreviateWords(article.Content, p.wordLimit)

	summary, err := p.summarizer.SummarizeResult(article.Content)
	article.SummarizedContent = summary
	if err != nil {
		p.logger.Debug("summary unavailable",
			"url", article.URL,
			"error", err,
		)
		return err
	}
	return nil
}
