package pipeline

import "errors"

var (
	// ErrNoContent is recorded when an allowed page produced no text.
	ErrNoContent = errors.New("page produced no content")

	// ErrNotRelevant is recorded when the relevance filter rejects an article.
	ErrNotRelevant = errors.New("article is not relevant to the candidate")
)
