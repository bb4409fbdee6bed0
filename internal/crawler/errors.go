package crawler

import "errors"

// Gatekeeper errors. Each Decision.Err wraps exactly one of them.
var (
	// ErrPolicyFetch is returned when robots.txt cannot be fetched or parsed.
	// The URL is denied.
	ErrPolicyFetch = errors.New("crawl policy unavailable")

	// ErrDisallowed is returned when robots.txt forbids the URL.
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrCrawlDelayExceeded is returned when honouring the site's crawl
	// delay would mean waiting longer than the configured cap.
	ErrCrawlDelayExceeded = errors.New("crawl delay wait exceeds cap")

	// ErrPageFetch is returned when the page itself cannot be fetched.
	// The article keeps empty content.
	ErrPageFetch = errors.New("page fetch failed")
)
