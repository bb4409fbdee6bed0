package salience

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
	language "google.golang.org/api/language/v1"
	"google.golang.org/api/option"
)

const (
	// DefaultTimeout bounds each analyzeEntities call.
	DefaultTimeout = 10 * time.Second

	// DefaultRequestsPerSecond is the client-side request rate limit.
	DefaultRequestsPerSecond = 5
)

// LanguageClient implements Service with Cloud Natural Language entity
// analysis. It is safe for concurrent use.
//
// The last analyzed text and its entities are remembered, so checking the
// candidate and then the party of one article costs a single remote call.
type LanguageClient struct {
	svc     *language.Service
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger

	mu          sync.Mutex
	lastContent string
	lastResult  []Entity
}

// LanguageOption configures a LanguageClient.
type LanguageOption func(*languageSettings)

type languageSettings struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	rps        float64
	logger     *slog.Logger
}

// WithAPIKey authenticates requests with an API key.
func WithAPIKey(key string) LanguageOption {
	return func(s *languageSettings) {
		s.apiKey = key
	}
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) LanguageOption {
	return func(s *languageSettings) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) LanguageOption {
	return func(s *languageSettings) {
		s.httpClient = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) LanguageOption {
	return func(s *languageSettings) {
		s.timeout = d
	}
}

// WithRateLimit sets the maximum requests per second. Zero disables limiting.
func WithRateLimit(rps float64) LanguageOption {
	return func(s *languageSettings) {
		s.rps = rps
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) LanguageOption {
	return func(s *languageSettings) {
		s.logger = logger
	}
}

// NewLanguageClient creates a client for the Natural Language API.
func NewLanguageClient(ctx context.Context, opts ...LanguageOption) (*LanguageClient, error) {
	settings := languageSettings{
		timeout: DefaultTimeout,
		rps:     DefaultRequestsPerSecond,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.logger == nil {
		settings.logger = slog.Default()
	}

	var clientOpts []option.ClientOption
	if settings.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(settings.apiKey))
	}
	if settings.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(settings.endpoint))
	}
	if settings.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(settings.httpClient))
	}

	svc, err := language.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create language service: %w", ErrService, err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if settings.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.rps), 1)
	}

	return &LanguageClient{
		svc:     svc,
		limiter: limiter,
		timeout: settings.timeout,
		logger:  settings.logger,
	}, nil
}

// Salience implements Service.
func (c *LanguageClient) Salience(ctx context.Context, content, name string) (float64, error) {
	entities, err := c.Entities(ctx, content)
	if err != nil {
		return 0, err
	}
	return MaxSalience(entities, name), nil
}

// Entities returns every entity the API finds in content.
func (c *LanguageClient) Entities(ctx context.Context, content string) ([]Entity, error) {
	c.mu.Lock()
	if c.lastResult != nil && c.lastContent == content {
		cached := c.lastResult
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrService, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &language.AnalyzeEntitiesRequest{
		Document: &language.Document{
			Type:    "PLAIN_TEXT",
			Content: content,
		},
		EncodingType: "UTF8",
	}
	resp, err := c.svc.Documents.AnalyzeEntities(req).Context(callCtx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: analyze entities: %w", ErrService, err)
	}

	entities := make([]Entity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		if e == nil {
			continue
		}
		entities = append(entities, Entity{
			Name:     e.Name,
			Type:     e.Type,
			Salience: e.Salience,
		})
	}
	c.logger.Debug("entities analyzed",
		"entities", len(entities),
		"language", resp.Language,
	)

	c.mu.Lock()
	c.lastContent = content
	c.lastResult = entities
	c.mu.Unlock()

	return entities, nil
}
