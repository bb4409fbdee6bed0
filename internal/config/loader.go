package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/ballotnews/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".ballotnews"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// CandidateEntry is a candidate as written in the configuration file.
type CandidateEntry struct {
	// Name is the candidate's full name.
	Name string `yaml:"name"`

	// Party is the candidate's party. Omit it for no affiliation.
	Party string `yaml:"party,omitempty"`
}

// SearchSection configures article discovery.
type SearchSection struct {
	Provider   string `yaml:"provider,omitempty"`
	CX         string `yaml:"cx,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	FeedURL    string `yaml:"feedUrl,omitempty"`
	MaxResults int    `yaml:"maxResults,omitempty"`
}

// CrawlSection configures politeness and transport.
type CrawlSection struct {
	UserAgent      string        `yaml:"userAgent,omitempty"`
	Proxy          string        `yaml:"proxy,omitempty"`
	ConnectTimeout time.Duration `yaml:"connectTimeout,omitempty"`
	ReadTimeout    time.Duration `yaml:"readTimeout,omitempty"`
	MaxCrawlDelay  time.Duration `yaml:"maxCrawlDelay,omitempty"`
	MaxBodySize    int64         `yaml:"maxBodySize,omitempty"`
}

// RelevanceSection configures the salience thresholds.
// Pointers distinguish an explicit 0 from an absent value.
type RelevanceSection struct {
	CandidateThreshold *float64 `yaml:"candidateThreshold,omitempty"`
	PartyThreshold     *float64 `yaml:"partyThreshold,omitempty"`
	Endpoint           string   `yaml:"endpoint,omitempty"`
	RateLimit          *float64 `yaml:"rateLimit,omitempty"`
}

// SummarySection configures the content processor.
type SummarySection struct {
	WordLimit int  `yaml:"wordLimit,omitempty"`
	Sentences int  `yaml:"sentences,omitempty"`
	Stemming  bool `yaml:"stemming,omitempty"`
}

// StorageSection configures the article store.
type StorageSection struct {
	Dir         string `yaml:"dir,omitempty"`
	StoreDenied bool   `yaml:"storeDenied,omitempty"`
}

// File represents the structure of the .ballotnews configuration file.
// Secrets are not read from the file; they come from the environment.
type File struct {
	// Candidates lists who to compile articles for.
	Candidates []CandidateEntry `yaml:"candidates,omitempty"`

	Search      SearchSection    `yaml:"search,omitempty"`
	Crawl       CrawlSection     `yaml:"crawl,omitempty"`
	Relevance   RelevanceSection `yaml:"relevance,omitempty"`
	Summary     SummarySection   `yaml:"summary,omitempty"`
	Storage     StorageSection   `yaml:"storage,omitempty"`
	Concurrency int              `yaml:"concurrency,omitempty"`

	// Schedule is a cron expression for the schedule command.
	Schedule string `yaml:"schedule,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies every value set in the file into cfg.
// Zero values in the file leave cfg unchanged.
func (cf *File) Apply(cfg *Config) {
	for _, entry := range cf.Candidates {
		cfg.Candidates = append(cfg.Candidates, model.NewCandidate(entry.Name, model.StringPtr(entry.Party)))
	}

	setString(&cfg.Provider, cf.Search.Provider)
	setString(&cfg.SearchCX, cf.Search.CX)
	setString(&cfg.SearchEndpoint, cf.Search.Endpoint)
	setString(&cfg.FeedURL, cf.Search.FeedURL)
	if cf.Search.MaxResults != 0 {
		cfg.MaxResults = cf.Search.MaxResults
	}

	setString(&cfg.UserAgent, cf.Crawl.UserAgent)
	setString(&cfg.ProxyAddress, cf.Crawl.Proxy)
	if cf.Crawl.ConnectTimeout != 0 {
		cfg.ConnectTimeout = cf.Crawl.ConnectTimeout
	}
	if cf.Crawl.ReadTimeout != 0 {
		cfg.ReadTimeout = cf.Crawl.ReadTimeout
	}
	if cf.Crawl.MaxCrawlDelay != 0 {
		cfg.MaxCrawlDelay = cf.Crawl.MaxCrawlDelay
	}
	if cf.Crawl.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.Crawl.MaxBodySize
	}

	if cf.Relevance.CandidateThreshold != nil {
		cfg.CandidateThreshold = *cf.Relevance.CandidateThreshold
	}
	if cf.Relevance.PartyThreshold != nil {
		cfg.PartyThreshold = *cf.Relevance.PartyThreshold
	}
	if cf.Relevance.RateLimit != nil {
		cfg.LanguageRateLimit = *cf.Relevance.RateLimit
	}
	setString(&cfg.LanguageEndpoint, cf.Relevance.Endpoint)

	if cf.Summary.WordLimit != 0 {
		cfg.WordLimit = cf.Summary.WordLimit
	}
	if cf.Summary.Sentences != 0 {
		cfg.SummarySentences = cf.Summary.Sentences
	}
	cfg.Stemming = cfg.Stemming || cf.Summary.Stemming

	setString(&cfg.DBDir, cf.Storage.Dir)
	cfg.StoreDenied = cfg.StoreDenied || cf.Storage.StoreDenied

	if cf.Concurrency != 0 {
		cfg.Concurrency = cf.Concurrency
	}
	setString(&cfg.Schedule, cf.Schedule)
}

// setString assigns v to dst when v is not empty.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .ballotnews in the current directory
// 3. Look for .ballotnews in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
