package pipeline

import (
	"context"
	"sync"

	"github.com/nao1215/ballotnews/internal/crawler"
	"github.com/nao1215/ballotnews/internal/model"
)

// fakeDecider returns canned decisions per URL.
type fakeDecider struct {
	mu        sync.Mutex
	decisions map[string]crawler.Decision
	calls     []string
}

func (f *fakeDecider) Decide(_ context.Context, rawURL string) crawler.Decision {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, rawURL)
	if d, ok := f.decisions[rawURL]; ok {
		d.Article.URL = rawURL
		return d
	}
	return crawler.Decision{Article: model.Article{URL: rawURL}, Err: crawler.ErrPolicyFetch}
}

// allowed builds an allowed decision carrying content.
func allowed(title, content string) crawler.Decision {
	d := crawler.Decision{Allowed: true}
	d.Article.Title = title
	d.Article.SetContent(content)
	return d
}

// fakeChecker answers relevance from a function and counts calls.
type fakeChecker struct {
	mu    sync.Mutex
	fn    func(content, candidate string) (bool, error)
	calls int
}

func (f *fakeChecker) IsRelevant(_ context.Context, content, candidateName string, _ *string) (bool, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn == nil {
		return true, nil
	}
	return f.fn(content, candidateName)
}

func (f *fakeChecker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memSink stores articles in memory keyed by candidate.
type memSink struct {
	mu       sync.Mutex
	articles map[string][]model.Article
	err      error
}

func newMemSink() *memSink {
	return &memSink{articles: make(map[string][]model.Article)}
}

func (m *memSink) Store(_ context.Context, candidateID, _ string, article *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.articles[candidateID] = append(m.articles[candidateID], *article)
	return nil
}

func (m *memSink) stored(candidateID string) []model.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Article(nil), m.articles[candidateID]...)
}

// staticProvider returns fixed articles per candidate name.
type staticProvider struct {
	articles map[string][]model.Article
	err      error
}

func (s *staticProvider) Discover(_ context.Context, candidateName string) ([]model.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.articles[candidateName], nil
}
