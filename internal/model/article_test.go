package model

import (
	"testing"
	"time"
)

// TestArticleSetContent tests that replacing content clears derived fields.
func TestArticleSetContent(t *testing.T) {
	t.Parallel()

	article := &Article{
		URL:                "https://news.example.com/a",
		Content:            "old body",
		AbbreviatedContent: "old",
		SummarizedContent:  "old body",
	}
	article.SetContent("new body text")

	if article.Content != "new body text" {
		t.Errorf("got content %q, expected 'new body text'", article.Content)
	}
	if article.AbbreviatedContent != "" {
		t.Errorf("expected abbreviated content cleared, got %q", article.AbbreviatedContent)
	}
	if article.SummarizedContent != "" {
		t.Errorf("expected summarized content cleared, got %q", article.SummarizedContent)
	}
}

// TestArticleHasContent tests blank content detection.
func TestArticleHasContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "empty", content: "", want: false},
		{name: "whitespace only", content: " \n\t ", want: false},
		{name: "text", content: "Jane Doe spoke.", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := &Article{Content: tt.content}
			if got := a.HasContent(); got != tt.want {
				t.Errorf("got %v, expected %v", got, tt.want)
			}
		})
	}
}

// TestClampPriority tests rank clamping into [1, maxResults].
func TestClampPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		priority   int
		maxResults int
		want       int
	}{
		{name: "in range", priority: 3, maxResults: 10, want: 3},
		{name: "zero clamps to one", priority: 0, maxResults: 10, want: 1},
		{name: "negative clamps to one", priority: -4, maxResults: 10, want: 1},
		{name: "above max clamps to max", priority: 11, maxResults: 10, want: 10},
		{name: "non-positive max uses default", priority: 42, maxResults: 0, want: DefaultMaxResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ClampPriority(tt.priority, tt.maxResults); got != tt.want {
				t.Errorf("got %d, expected %d", got, tt.want)
			}
		})
	}
}

// TestNewArticle tests article construction.
func TestNewArticle(t *testing.T) {
	t.Parallel()

	a := NewArticle("https://news.example.com/b", 15, 10)
	if a.URL != "https://news.example.com/b" {
		t.Errorf("got URL %q", a.URL)
	}
	if a.Priority != 10 {
		t.Errorf("got priority %d, expected 10", a.Priority)
	}
	if a.Publisher != nil || a.PublishedDate != nil {
		t.Error("expected optional metadata to be absent")
	}
	if a.Content != "" {
		t.Errorf("expected empty content, got %q", a.Content)
	}
}

// TestStringPtr tests optional string construction.
func TestStringPtr(t *testing.T) {
	t.Parallel()

	if StringPtr("   ") != nil {
		t.Error("expected nil for blank string")
	}
	p := StringPtr(" Daily Planet ")
	if p == nil || *p != "Daily Planet" {
		t.Errorf("got %v, expected 'Daily Planet'", p)
	}

	a := &Article{Publisher: p}
	if a.PublisherName() != "Daily Planet" {
		t.Errorf("got %q", a.PublisherName())
	}
	if (&Article{}).PublisherName() != "" {
		t.Error("expected empty publisher name")
	}
}

// TestCandidateID tests slug generation.
func TestCandidateID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Jane Doe", want: "jane-doe"},
		{name: "punctuation", in: "Jane Q. Doe", want: "jane-q-doe"},
		{name: "surrounding space", in: "  John  Smith  ", want: "john-smith"},
		{name: "accents kept", in: "José Núñez", want: "josé-núñez"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CandidateID(tt.in); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

// TestCandidateReport tests outcome accounting.
func TestCandidateReport(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	report := NewCandidateReport("run-1", NewCandidate("Jane Doe", StringPtr("Green")), start)

	stored := &Article{URL: "https://a.example.com/1", Content: "x"}
	report.AddResult(ArticleResult{URL: stored.URL, Priority: 1, Outcome: OutcomeStored, Article: stored})
	report.AddResult(ArticleResult{URL: "https://b.example.com/2", Priority: 2, Outcome: OutcomeDenied})
	report.AddResult(ArticleResult{URL: "https://c.example.com/3", Priority: 3, Outcome: OutcomeDenied})

	if got := report.Count(OutcomeDenied); got != 2 {
		t.Errorf("got %d denied, expected 2", got)
	}
	if got := len(report.StoredArticles()); got != 1 {
		t.Errorf("got %d stored articles, expected 1", got)
	}
	if report.Duration() != 0 {
		t.Error("expected zero duration before completion")
	}
	report.CompletedAt = start.Add(3 * time.Second)
	if report.Duration() != 3*time.Second {
		t.Errorf("got %v, expected 3s", report.Duration())
	}
	if report.Candidate.PartyName() != "Green" {
		t.Errorf("got party %q", report.Candidate.PartyName())
	}
}

// TestOutcomeString tests outcome names and terminal states.
func TestOutcomeString(t *testing.T) {
	t.Parallel()

	for _, o := range Outcomes() {
		if o.String() == "unknown" {
			t.Errorf("outcome %d has no name", o)
		}
	}
	if Outcome(99).String() != "unknown" {
		t.Error("expected unknown for out of range outcome")
	}
	if OutcomeProcessed.IsTerminal() || OutcomeDiscovered.IsTerminal() {
		t.Error("discovered and processed must not be terminal")
	}
	if !OutcomeDenied.IsTerminal() || !OutcomeStored.IsTerminal() {
		t.Error("denied and stored must be terminal")
	}
	text, err := OutcomeExtractFailed.MarshalText()
	if err != nil || string(text) != "extract_failed" {
		t.Errorf("got %q, %v", text, err)
	}
}
