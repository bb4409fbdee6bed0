package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/ballotnews/internal/model"
)

// Default configuration values.
const (
	// DefaultConnectTimeout bounds establishing a connection to a site.
	DefaultConnectTimeout = 1 * time.Second

	// DefaultReadTimeout bounds each wait for response data.
	DefaultReadTimeout = 1 * time.Second

	// DefaultMaxCrawlDelay is the longest crawl delay the crawler waits out.
	// A URL whose host asks for a longer wait is skipped.
	DefaultMaxCrawlDelay = 30 * time.Second

	// DefaultMaxResults is the number of search results requested per candidate.
	DefaultMaxResults = model.DefaultMaxResults

	// DefaultCandidateThreshold is the minimum salience of the candidate's name.
	DefaultCandidateThreshold = 0.5

	// DefaultPartyThreshold is the minimum salience of the candidate's party.
	DefaultPartyThreshold = 0.1

	// DefaultWordLimit is the length of the abbreviated content in words.
	DefaultWordLimit = 100

	// DefaultSummarySentences is the number of sentences in a summary.
	DefaultSummarySentences = 3

	// DefaultConcurrency is the number of candidates compiled at once.
	DefaultConcurrency = 4

	// DefaultLanguageRateLimit is the Natural Language API requests per second.
	DefaultLanguageRateLimit = 5.0

	// DefaultMaxBodySize limits the response body size read from a page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies ballotnews in HTTP requests and is the
	// agent matched against robots.txt groups.
	DefaultUserAgent = "ballotnews/1.0 (+https://github.com/nao1215/ballotnews)"

	// ProviderCustomSearch discovers articles with the Custom Search JSON API.
	ProviderCustomSearch = "customsearch"

	// ProviderFeed discovers articles from an RSS or Atom search feed.
	ProviderFeed = "feed"

	// AppName is the application name used for XDG directory paths.
	AppName = "ballotnews"
)

// Config holds all configuration options for ballotnews.
// This struct is populated from defaults, the configuration file, the
// environment and CLI flags, in that order, and passed through the
// application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The YAML file is nested for readability and File.Apply flattens it.
type Config struct {
	// Candidates is the list of candidates to compile articles for.
	Candidates []model.Candidate

	// ConnectTimeout bounds establishing each HTTP connection.
	ConnectTimeout time.Duration

	// ReadTimeout bounds each wait for response data.
	ReadTimeout time.Duration

	// MaxCrawlDelay is the longest robots.txt crawl delay waited out.
	MaxCrawlDelay time.Duration

	// UserAgent is the User-Agent header and the robots.txt agent.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// Provider selects article discovery: customsearch or feed.
	Provider string

	// MaxResults is the number of search results requested per candidate.
	MaxResults int

	// SearchAPIKey is the Custom Search API key. Read from the environment.
	SearchAPIKey string

	// SearchCX is the Programmable Search Engine ID. Read from the environment
	// or the config file.
	SearchCX string

	// SearchEndpoint overrides the Custom Search API base URL.
	SearchEndpoint string

	// FeedURL is the feed URL template for the feed provider.
	// "{query}" is replaced with the escaped candidate name.
	FeedURL string

	// LanguageAPIKey is the Natural Language API key. Read from the environment.
	LanguageAPIKey string

	// LanguageEndpoint overrides the Natural Language API base URL.
	LanguageEndpoint string

	// LanguageRateLimit caps Natural Language API requests per second.
	// 0 disables the limit.
	LanguageRateLimit float64

	// CandidateThreshold is the minimum salience of the candidate's name.
	CandidateThreshold float64

	// PartyThreshold is the minimum salience of the candidate's party.
	PartyThreshold float64

	// WordLimit is the length of the abbreviated content in words.
	WordLimit int

	// SummarySentences is the number of sentences kept in a summary.
	SummarySentences int

	// Stemming enables Snowball stemming before sentence similarity.
	Stemming bool

	// Concurrency is the number of candidates compiled at once.
	Concurrency int

	// DBDir is the directory holding the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/ballotnews on Linux).
	DBDir string

	// StoreDenied stores articles the gatekeeper denied, with empty content.
	StoreDenied bool

	// Schedule is the cron expression used by the schedule command.
	Schedule string

	// ReportFormat is text, json or markdown.
	ReportFormat string

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .ballotnews in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// LogJSON selects the JSON log handler.
	LogJSON bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts and
// thresholds). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		ConnectTimeout:     DefaultConnectTimeout,
		ReadTimeout:        DefaultReadTimeout,
		MaxCrawlDelay:      DefaultMaxCrawlDelay,
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
		Provider:           ProviderCustomSearch,
		MaxResults:         DefaultMaxResults,
		LanguageRateLimit:  DefaultLanguageRateLimit,
		CandidateThreshold: DefaultCandidateThreshold,
		PartyThreshold:     DefaultPartyThreshold,
		WordLimit:          DefaultWordLimit,
		SummarySentences:   DefaultSummarySentences,
		Concurrency:        DefaultConcurrency,
		DBDir:              XDGDataDir(),
		ReportFormat:       "text",
	}
}

// XDGDataDir returns the XDG data directory for ballotnews.
// On Linux: ~/.local/share/ballotnews
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ballotnews.
// On Linux: ~/.config/ballotnews
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// AddCandidateNames appends candidates given by name only.
// Blank names are skipped.
func (c *Config) AddCandidateNames(names ...string) {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c.Candidates = append(c.Candidates, model.NewCandidate(name, nil))
	}
}

// Validate checks if the configuration is valid for a compile run.
// It returns the first specific error found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
func (c *Config) Validate() error {
	if len(c.Candidates) == 0 {
		return ErrNoCandidates
	}
	for _, candidate := range c.Candidates {
		if strings.TrimSpace(candidate.Name) == "" {
			return ErrInvalidCandidate
		}
	}

	if c.ConnectTimeout <= 0 || c.ReadTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxCrawlDelay <= 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.MaxResults < 1 || c.MaxResults > DefaultMaxResults {
		return ErrInvalidMaxResults
	}

	if !validThreshold(c.CandidateThreshold) || !validThreshold(c.PartyThreshold) {
		return ErrInvalidThreshold
	}

	if c.WordLimit <= 0 {
		return ErrInvalidWordLimit
	}

	if c.SummarySentences <= 0 {
		return ErrInvalidSentenceCount
	}

	switch c.Provider {
	case ProviderCustomSearch:
		if c.SearchAPIKey == "" || c.SearchCX == "" {
			return ErrMissingSearchCredentials
		}
	case ProviderFeed:
		if !strings.Contains(c.FeedURL, "{query}") {
			return ErrMissingFeedURL
		}
	default:
		return ErrUnknownProvider
	}

	if c.LanguageAPIKey == "" {
		return ErrMissingLanguageKey
	}

	return nil
}

// validThreshold reports whether v is a salience value.
func validThreshold(v float64) bool {
	return v >= 0 && v <= 1
}
