package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoCandidates is returned when no candidate is given on the command
	// line or in the configuration file.
	ErrNoCandidates = errors.New("no candidates specified: pass candidate names or list them in the config file")

	// ErrInvalidCandidate is returned when a candidate has a blank name.
	ErrInvalidCandidate = errors.New("invalid candidate: name must not be empty")

	// ErrInvalidTimeout is returned when a connect or read timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the candidate concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay cap is not positive.
	ErrInvalidCrawlDelay = errors.New("invalid max crawl delay: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxResults is returned when the search result limit is outside [1, 10].
	ErrInvalidMaxResults = errors.New("invalid max results: must be between 1 and 10")

	// ErrInvalidThreshold is returned when a salience threshold is outside [0, 1].
	ErrInvalidThreshold = errors.New("invalid salience threshold: must be between 0 and 1")

	// ErrInvalidWordLimit is returned when the abbreviation word limit is not positive.
	ErrInvalidWordLimit = errors.New("invalid word limit: must be positive")

	// ErrInvalidSentenceCount is returned when the summary length is not positive.
	ErrInvalidSentenceCount = errors.New("invalid summary sentence count: must be positive")

	// ErrUnknownProvider is returned for a discovery provider other than
	// customsearch or feed.
	ErrUnknownProvider = errors.New("unknown discovery provider: use customsearch or feed")

	// ErrMissingSearchCredentials is returned when the customsearch provider
	// has no API key or search engine ID.
	ErrMissingSearchCredentials = errors.New("missing search credentials: set " + EnvSearchKey + " and " + EnvSearchCX)

	// ErrMissingFeedURL is returned when the feed provider has no URL template.
	ErrMissingFeedURL = errors.New("missing feed url: set search.feedUrl with a {query} placeholder")

	// ErrMissingLanguageKey is returned when no Natural Language API key is set.
	ErrMissingLanguageKey = errors.New("missing language api key: set " + EnvLanguageKey)
)
