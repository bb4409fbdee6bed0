package model

import (
	"strings"
	"time"
)

// DefaultMaxResults is the number of search results requested per candidate.
// Priorities are clamped to [1, DefaultMaxResults] unless a caller configures
// a different limit.
const DefaultMaxResults = 10

// Article represents one candidate news article as it flows through the
// compilation pipeline.
//
// Design decision: Publisher and PublishedDate are pointers because "absent"
// is a real state that must survive to storage. Defaulting a missing date to
// the epoch would make stale-content expiry delete fresh articles.
type Article struct {
	// URL is the article's location and its identity.
	// An empty string means the URL is unknown.
	URL string `json:"url"`

	// Title is the page title, or empty if unknown.
	Title string `json:"title"`

	// Publisher is the publishing outlet name, nil when no source reported one.
	Publisher *string `json:"publisher,omitempty"`

	// PublishedDate is the publication instant, nil when unknown.
	PublishedDate *time.Time `json:"published_date,omitempty"`

	// Content is the extracted article body text.
	// It is never nil; an empty string means extraction failed.
	Content string `json:"content"`

	// AbbreviatedContent is a word prefix of Content.
	AbbreviatedContent string `json:"abbreviated_content"`

	// SummarizedContent is an extractive summary of Content.
	// Empty when summarization failed.
	SummarizedContent string `json:"summarized_content"`

	// Priority is the 1-based search rank of the article.
	Priority int `json:"priority"`

	// LastModified is set by the store when the article is written.
	LastModified time.Time `json:"last_modified,omitzero"`
}

// NewArticle creates an article for a discovered URL with a clamped priority.
func NewArticle(url string, priority, maxResults int) Article {
	return Article{
		URL:      url,
		Priority: ClampPriority(priority, maxResults),
	}
}

// SetContent replaces the article body and clears both derived fields.
// The processor must run again before the derived fields are meaningful.
func (a *Article) SetContent(content string) {
	a.Content = content
	a.AbbreviatedContent = ""
	a.SummarizedContent = ""
}

// HasContent reports whether extraction produced any non-blank text.
func (a *Article) HasContent() bool {
	return strings.TrimSpace(a.Content) != ""
}

// PublisherName returns the publisher or an empty string when absent.
func (a *Article) PublisherName() string {
	if a.Publisher == nil {
		return ""
	}
	return *a.Publisher
}

// ClampPriority keeps a rank inside [1, maxResults].
// A non-positive maxResults falls back to DefaultMaxResults.
func ClampPriority(priority, maxResults int) int {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return max(1, min(priority, maxResults))
}

// StringPtr returns a pointer to s, or nil when s is blank.
// Used when optional metadata arrives as plain strings.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
