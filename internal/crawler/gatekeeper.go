package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nao1215/ballotnews/internal/extractor"
	"github.com/nao1215/ballotnews/internal/model"
	"github.com/nao1215/ballotnews/internal/transport"
)

// Fetcher performs a single GET request. *transport.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*transport.Response, error)
}

// ContentExtractor turns a page body into title, text and metadata.
// *extractor.Extractor implements it.
type ContentExtractor interface {
	ExtractResult(r io.Reader, pageURL string) (extractor.Result, error)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Decision is the gatekeeper's answer for one URL.
type Decision struct {
	// Allowed is false when the URL must not be fetched.
	Allowed bool

	// Article carries the URL and, when the page was fetched, its title and
	// content. Title and content are empty on every failure.
	Article model.Article

	// Meta holds page metadata when the page was fetched.
	Meta extractor.Metadata

	// Err explains a denial or an empty article. It wraps one of the
	// package's sentinel errors, or a context error.
	Err error
}

// Gatekeeper applies crawling policy before fetching a page.
type Gatekeeper struct {
	fetcher   Fetcher
	extractor ContentExtractor
	clock     *HostClock
	sleep     Sleeper
	maxWait   time.Duration
	agent     string
	logger    *slog.Logger
}

// Option configures a Gatekeeper.
type Option func(*Gatekeeper)

// WithClock sets the host clock. Share one clock across gatekeepers that
// may contact the same hosts.
func WithClock(clock *HostClock) Option {
	return func(g *Gatekeeper) {
		g.clock = clock
	}
}

// WithSleeper replaces the context-aware sleep used for crawl delays.
func WithSleeper(s Sleeper) Option {
	return func(g *Gatekeeper) {
		g.sleep = s
	}
}

// WithMaxWait sets the crawl-delay wait cap.
func WithMaxWait(d time.Duration) Option {
	return func(g *Gatekeeper) {
		g.maxWait = d
	}
}

// WithAgent sets the robots.txt user-agent group to consult.
func WithAgent(agent string) Option {
	return func(g *Gatekeeper) {
		g.agent = agent
	}
}

// WithLogger sets the gatekeeper logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gatekeeper) {
		g.logger = logger
	}
}

// NewGatekeeper creates a Gatekeeper.
func NewGatekeeper(fetcher Fetcher, ext ContentExtractor, opts ...Option) *Gatekeeper {
	g := &Gatekeeper{
		fetcher:   fetcher,
		extractor: ext,
		maxWait:   DefaultMaxWait,
		agent:     WildcardAgent,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = NewHostClock()
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Clock returns the host clock in use.
func (g *Gatekeeper) Clock() *HostClock {
	return g.clock
}

// Decide checks the crawl policy for rawURL, waits out any crawl delay and
// fetches the page.
//
// It never panics and never returns a bare error: every failure is folded
// into the Decision. A denied URL has Allowed=false. An allowed URL whose
// page could not be fetched or extracted has empty content and a non-nil Err.
func (g *Gatekeeper) Decide(ctx context.Context, rawURL string) (d Decision) {
	d.Article = model.Article{URL: rawURL}
	defer func() {
		if r := recover(); r != nil {
			d = Decision{
				Article: model.Article{URL: rawURL},
				Err:     fmt.Errorf("%w: panic: %v", ErrPolicyFetch, r),
			}
		}
	}()

	robotsURL, err := RobotsURL(rawURL)
	if err != nil {
		d.Err = fmt.Errorf("%w: %w", ErrPolicyFetch, err)
		return d
	}

	grant, err := g.grant(ctx, robotsURL, rawURL)
	if err != nil {
		g.logger.Debug("crawl policy unavailable", "url", rawURL, "error", err)
		d.Err = err
		return d
	}
	if !grant.HasAccess {
		d.Err = fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		return d
	}

	if grant.CrawlDelay != nil {
		wait, err := g.clock.Reserve(robotsURL, *grant.CrawlDelay, g.maxWait)
		if err != nil {
			g.logger.Info("crawl delay exceeds cap", "url", rawURL, "error", err)
			d.Err = err
			return d
		}
		if wait > 0 {
			g.logger.Debug("waiting for crawl delay", "url", rawURL, "wait", wait)
			if err := g.sleep(ctx, wait); err != nil {
				d.Err = err
				return d
			}
		}
	}

	d.Allowed = true
	resp, err := g.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		d.Err = fmt.Errorf("%w: %w", ErrPageFetch, err)
		return d
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.Err = fmt.Errorf("%w: status %d", ErrPageFetch, resp.StatusCode)
		return d
	}

	res, err := g.extractor.ExtractResult(bytes.NewReader(resp.Body), rawURL)
	if err != nil {
		d.Err = err
		return d
	}
	d.Article.Title = res.Title
	d.Article.SetContent(res.Content)
	d.Meta = res.Meta
	return d
}

// grant fetches robots.txt and evaluates it for pageURL.
func (g *Gatekeeper) grant(ctx context.Context, robotsURL, pageURL string) (Grant, error) {
	resp, err := g.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		return Grant{}, fmt.Errorf("%w: %w", ErrPolicyFetch, err)
	}
	return ParseGrant(resp.StatusCode, resp.Body, pageURL, g.agent)
}

// sleepContext waits for d unless ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
