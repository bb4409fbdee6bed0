package processor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/ballotnews/internal/textrank"
)

// DefaultSentenceCount is the number of sentences kept in a summary.
const DefaultSentenceCount = 3

// Summarizer produces extractive summaries by ranking sentences with
// TextRank and keeping the best ones in their original order.
type Summarizer struct {
	sentenceCount int
	threshold     float64
	tokenizer     Tokenizer
	logger        *slog.Logger
}

// SummarizerOption configures a Summarizer.
type SummarizerOption func(*Summarizer)

// WithSentenceCount sets how many sentences a summary keeps.
func WithSentenceCount(k int) SummarizerOption {
	return func(s *Summarizer) {
		s.sentenceCount = k
	}
}

// WithSimilarityThreshold sets the minimum similarity for a graph edge.
func WithSimilarityThreshold(threshold float64) SummarizerOption {
	return func(s *Summarizer) {
		s.threshold = threshold
	}
}

// WithStemming enables Snowball stemming of tokens before comparison.
func WithStemming(enabled bool) SummarizerOption {
	return func(s *Summarizer) {
		s.tokenizer.Stem = enabled
	}
}

// WithSummarizerLogger sets the logger used for failure diagnostics.
func WithSummarizerLogger(logger *slog.Logger) SummarizerOption {
	return func(s *Summarizer) {
		s.logger = logger
	}
}

// NewSummarizer creates a Summarizer with the default parameters.
func NewSummarizer(opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		sentenceCount: DefaultSentenceCount,
		threshold:     textrank.DefaultSimilarityThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sentenceCount < 1 {
		s.sentenceCount = DefaultSentenceCount
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Summarize returns the summary of content, or an empty string when any
// step fails.
func (s *Summarizer) Summarize(content string) string {
	summary, err := s.SummarizeResult(content)
	if err != nil {
		s.logger.Debug("summarization failed", "error", err)
		return ""
	}
	return summary
}

// SummarizeResult returns the summary of content and the reason it could
// not be produced.
//
// Content with at most the configured number of sentences is returned
// unchanged. Otherwise the chosen sentences are joined with single spaces.
func (s *Summarizer) SummarizeResult(content string) (summary string, err error) {
	defer func() {
		if r := recover(); r != nil {
			summary = ""
			err = fmt.Errorf("%w: panic: %v", textrank.ErrRanking, r)
		}
	}()

	sents, err := Segmenter{Language: s.tokenizer.Language}.Sentences(content)
	if err != nil {
		return "", err
	}
	if len(sents) <= s.sentenceCount {
		return content, nil
	}

	tokens := make([][]string, len(sents))
	for i, sent := range sents {
		toks, err := s.tokenizer.Tokens(sent)
		if err != nil {
			return "", err
		}
		tokens[i] = toks
	}

	graph, err := textrank.BuildSimilarityGraph(tokens, s.threshold)
	if err != nil {
		return "", err
	}
	scores, err := textrank.Rank(graph)
	if err != nil {
		return "", err
	}

	top := textrank.TopK(scores, s.sentenceCount)
	picked := make([]string, len(top))
	for i, idx := range top {
		picked[i] = sents[idx]
	}
	return strings.Join(picked, " "), nil
}
