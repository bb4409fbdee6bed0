package model

import (
	"time"
)

// CandidateReport is the result of one compilation run for a candidate.
//
// Design decision: Every discovered URL gets a result entry, including the
// ones that were dropped. Operators need to see why an article was skipped
// (robots denial, crawl delay, irrelevance) without re-running the crawl.
type CandidateReport struct {
	// RunID uniquely identifies the compilation run.
	RunID string `json:"run_id"`

	// Candidate is who the run compiled articles for.
	Candidate Candidate `json:"candidate"`

	// StartedAt is when discovery began.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the last URL finished.
	CompletedAt time.Time `json:"completed_at"`

	// Results holds one entry per discovered URL in priority order.
	Results []ArticleResult `json:"results,omitempty"`

	// Error contains the discovery or cancellation error that ended the run early.
	Error string `json:"error,omitempty"`
}

// ArticleResult records what happened to a single discovered URL.
type ArticleResult struct {
	// URL is the discovered article URL.
	URL string `json:"url"`

	// Priority is the search rank of the URL.
	Priority int `json:"priority"`

	// Outcome is the terminal pipeline state.
	Outcome Outcome `json:"outcome"`

	// Reason is the error text behind a non-successful outcome.
	Reason string `json:"reason,omitempty"`

	// Article is the article as it left the pipeline.
	// Nil for outcomes that carry no useful content.
	Article *Article `json:"article,omitempty"`
}

// NewCandidateReport creates an empty report for a run.
func NewCandidateReport(runID string, candidate Candidate, startedAt time.Time) *CandidateReport {
	return &CandidateReport{
		RunID:     runID,
		Candidate: candidate,
		StartedAt: startedAt,
	}
}

// AddResult appends a URL result.
func (r *CandidateReport) AddResult(result ArticleResult) {
	r.Results = append(r.Results, result)
}

// Count returns how many URLs ended with the given outcome.
func (r *CandidateReport) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// StoredArticles returns the articles that were written to the store.
func (r *CandidateReport) StoredArticles() []Article {
	var articles []Article
	for _, res := range r.Results {
		if res.Outcome == OutcomeStored && res.Article != nil {
			articles = append(articles, *res.Article)
		}
	}
	return articles
}

// Duration returns the wall time of the run, or zero if it has not completed.
func (r *CandidateReport) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
