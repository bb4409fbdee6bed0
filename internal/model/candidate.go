package model

import (
	"strings"
	"unicode"
)

// Candidate is the person articles are compiled for.
type Candidate struct {
	// ID is the stable identifier used as the storage key.
	ID string `json:"id" yaml:"id"`

	// Name is the full name searched for and matched against entities.
	Name string `json:"name" yaml:"name"`

	// Party is the political affiliation, nil when none is recorded.
	Party *string `json:"party,omitempty" yaml:"party,omitempty"`
}

// NewCandidate builds a candidate whose ID is derived from the name.
func NewCandidate(name string, party *string) Candidate {
	return Candidate{
		ID:    CandidateID(name),
		Name:  strings.TrimSpace(name),
		Party: party,
	}
}

// PartyName returns the party or an empty string when absent.
func (c Candidate) PartyName() string {
	if c.Party == nil {
		return ""
	}
	return *c.Party
}

// CandidateID turns a display name into a lowercase, dash separated slug.
// "Jane Q. Doe" becomes "jane-q-doe".
func CandidateID(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
