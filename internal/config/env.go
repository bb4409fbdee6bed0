package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding secrets.
const (
	// EnvSearchKey is the Custom Search API key.
	EnvSearchKey = "BALLOTNEWS_SEARCH_KEY"

	// EnvSearchCX is the Programmable Search Engine ID.
	EnvSearchCX = "BALLOTNEWS_SEARCH_CX"

	// EnvLanguageKey is the Natural Language API key.
	EnvLanguageKey = "BALLOTNEWS_LANGUAGE_KEY"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables that are already set are not overridden and
// missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv copies secrets from the environment into cfg.
// Unset variables leave cfg unchanged.
func (c *Config) ApplyEnv() {
	c.applyEnv(os.Getenv)
}

// applyEnv is ApplyEnv with an injectable lookup for tests.
func (c *Config) applyEnv(getenv func(string) string) {
	setString(&c.SearchAPIKey, getenv(EnvSearchKey))
	setString(&c.SearchCX, getenv(EnvSearchCX))
	setString(&c.LanguageAPIKey, getenv(EnvLanguageKey))
}
