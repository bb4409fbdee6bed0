package model

// Record is the persisted shape of an article stored for a candidate.
type Record struct {
	// Key identifies the article row. It is derived from the URL.
	Key string `json:"key"`

	// CandidateID is the candidate the article was stored for.
	CandidateID string `json:"candidate_id"`

	// RunID is the compile run that last wrote the article.
	RunID string `json:"run_id,omitempty"`

	// Article holds the stored article fields.
	// Article.Priority is the rank the candidate's search assigned.
	Article Article `json:"article"`
}
