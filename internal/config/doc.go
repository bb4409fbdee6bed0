// Package config provides configuration structures and utilities for ballotnews.
// It defines the candidates to compile, crawl politeness and timeout
// settings, search and language service credentials, and report preferences.
package config
