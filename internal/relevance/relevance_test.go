package relevance

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/ballotnews/internal/salience"
)

// fakeService returns fixed saliences per name and records lookups.
type fakeService struct {
	scores map[string]float64
	err    error
	calls  []string
}

func (f *fakeService) Salience(_ context.Context, _ string, name string) (float64, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return 0, f.err
	}
	return f.scores[name], nil
}

func ptr(s string) *string {
	return &s
}

// TestFilterIsRelevant tests the two-threshold truth table.
func TestFilterIsRelevant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate float64
		party     float64
		partyName *string
		want      bool
		wantCalls int
	}{
		{name: "candidate and party salient", candidate: 0.6, party: 0.2, partyName: ptr("Green"), want: true, wantCalls: 2},
		{name: "candidate salient, party below threshold", candidate: 0.6, party: 0.05, partyName: ptr("Green"), want: false, wantCalls: 2},
		{name: "candidate below threshold skips party", candidate: 0.3, party: 0.9, partyName: ptr("Green"), want: false, wantCalls: 1},
		{name: "no party", candidate: 0.6, partyName: nil, want: true, wantCalls: 1},
		{name: "nonpartisan sentinel", candidate: 0.6, partyName: ptr("Nonpartisan"), want: true, wantCalls: 1},
		{name: "no party preference sentinel", candidate: 0.6, partyName: ptr(" No Party Preference "), want: true, wantCalls: 1},
		{name: "empty party", candidate: 0.6, partyName: ptr(""), want: true, wantCalls: 1},
		{name: "candidate exactly at threshold", candidate: 0.5, partyName: nil, want: true, wantCalls: 1},
		{name: "party exactly at threshold", candidate: 0.5, party: 0.1, partyName: ptr("Green"), want: true, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeService{scores: map[string]float64{"Jane Doe": tt.candidate}}
			if tt.partyName != nil {
				svc.scores[*tt.partyName] = tt.party
			}

			got, err := New(svc).IsRelevant(context.Background(), "article text", "Jane Doe", tt.partyName)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, expected %v", got, tt.want)
			}
			if len(svc.calls) != tt.wantCalls {
				t.Errorf("got %d salience calls, expected %d", len(svc.calls), tt.wantCalls)
			}
		})
	}
}

// TestFilterCustomThresholds tests threshold options.
func TestFilterCustomThresholds(t *testing.T) {
	t.Parallel()

	svc := &fakeService{scores: map[string]float64{"Jane Doe": 0.3, "Green": 0.3}}
	f := New(svc, WithCandidateThreshold(0.25), WithPartyThreshold(0.35))

	got, err := f.IsRelevant(context.Background(), "text", "Jane Doe", ptr("Green"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected party threshold to reject")
	}
}

// TestFilterServiceError tests that service failures surface as errors.
func TestFilterServiceError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{err: salience.ErrService}
	got, err := New(svc).IsRelevant(context.Background(), "text", "Jane Doe", ptr("Green"))
	if got {
		t.Error("expected not relevant on error")
	}
	if !errors.Is(err, salience.ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}
}

// TestIsNoAffiliation tests the sentinel list.
func TestIsNoAffiliation(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"", "  ", "Independent", "UNAFFILIATED", "unknown", "None", "nonpartisan"} {
		if !IsNoAffiliation(p) {
			t.Errorf("expected %q to mean no affiliation", p)
		}
	}
	for _, p := range []string{"Green", "Democratic", "Republican", "Libertarian"} {
		if IsNoAffiliation(p) {
			t.Errorf("expected %q to be a party", p)
		}
	}
}
