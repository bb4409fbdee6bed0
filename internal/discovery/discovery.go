// Package discovery finds candidate news URLs for a person's name.
//
// Providers return a short, ranked list of articles. Ranking is the
// provider's own order; priority 1 is the best hit. Only the URL is
// required: publisher and publication date are filled in when the provider
// knows them and left nil otherwise.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nao1215/ballotnews/internal/model"
)

// ErrProvider is returned when the search backend fails.
var ErrProvider = errors.New("discovery provider failed")

// Provider discovers articles about a candidate.
type Provider interface {
	// Discover returns up to the provider's result limit of articles for
	// candidateName, ordered by priority. On error the list is empty.
	Discover(ctx context.Context, candidateName string) ([]model.Article, error)
}

// Option configures a provider.
type Option func(*settings)

type settings struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	maxResults int
	logger     *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{maxResults: model.DefaultMaxResults}
	for _, opt := range opts {
		opt(&s)
	}
	if s.maxResults <= 0 {
		s.maxResults = model.DefaultMaxResults
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// WithAPIKey sets the API key for providers that need one.
func WithAPIKey(key string) Option {
	return func(s *settings) {
		s.apiKey = key
	}
}

// WithEndpoint overrides the provider's base URL.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// WithMaxResults sets the result limit and the priority clamp.
func WithMaxResults(n int) Option {
	return func(s *settings) {
		s.maxResults = n
	}
}

// WithLogger sets the provider logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
