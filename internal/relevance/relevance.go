// Package relevance decides whether an article is about a candidate.
//
// An article is relevant when the candidate is a salient entity in it and,
// if the candidate has a real party affiliation, the party is mentioned
// prominently enough as well. The candidate threshold is the stricter one:
// an article about a person names them constantly, while the party may only
// appear in passing.
package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/ballotnews/internal/salience"
)

const (
	// DefaultCandidateThreshold is the minimum candidate salience.
	DefaultCandidateThreshold = 0.5

	// DefaultPartyThreshold is the minimum party salience.
	DefaultPartyThreshold = 0.1
)

// noAffiliation lists party values that mean "no party". They are compared
// after trimming and lowercasing.
var noAffiliation = map[string]struct{}{
	"":                    {},
	"nonpartisan":         {},
	"non-partisan":        {},
	"independent":         {},
	"no party preference": {},
	"unaffiliated":        {},
	"unknown":             {},
	"none":                {},
}

// IsNoAffiliation reports whether party denotes the absence of a party.
func IsNoAffiliation(party string) bool {
	_, ok := noAffiliation[strings.ToLower(strings.TrimSpace(party))]
	return ok
}

// Filter applies the two-threshold relevance rule.
type Filter struct {
	service            salience.Service
	candidateThreshold float64
	partyThreshold     float64
	logger             *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithCandidateThreshold sets the candidate salience threshold.
func WithCandidateThreshold(v float64) Option {
	return func(f *Filter) {
		f.candidateThreshold = v
	}
}

// WithPartyThreshold sets the party salience threshold.
func WithPartyThreshold(v float64) Option {
	return func(f *Filter) {
		f.partyThreshold = v
	}
}

// WithLogger sets the filter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		f.logger = logger
	}
}

// New creates a Filter backed by service.
func New(service salience.Service, opts ...Option) *Filter {
	f := &Filter{
		service:            service,
		candidateThreshold: DefaultCandidateThreshold,
		partyThreshold:     DefaultPartyThreshold,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// IsRelevant reports whether content is about the candidate.
//
// The article is accepted iff the candidate salience reaches the candidate
// threshold and, unless partyName is nil or a no-affiliation value, the party
// salience reaches the party threshold. The party is only looked up when the
// candidate passes. A salience service error is returned and the article
// should be treated as irrelevant.
func (f *Filter) IsRelevant(ctx context.Context, content, candidateName string, partyName *string) (bool, error) {
	candidateSalience, err := f.service.Salience(ctx, content, candidateName)
	if err != nil {
		return false, fmt.Errorf("candidate salience: %w", err)
	}
	if candidateSalience < f.candidateThreshold {
		f.logger.Debug("candidate not salient",
			"candidate", candidateName,
			"salience", candidateSalience,
			"threshold", f.candidateThreshold,
		)
		return false, nil
	}

	if partyName == nil || IsNoAffiliation(*partyName) {
		return true, nil
	}

	partySalience, err := f.service.Salience(ctx, content, *partyName)
	if err != nil {
		return false, fmt.Errorf("party salience: %w", err)
	}
	if partySalience < f.partyThreshold {
		f.logger.Debug("party not salient",
			"party", *partyName,
			"salience", partySalience,
			"threshold", f.partyThreshold,
		)
		return false, nil
	}
	return true, nil
}
