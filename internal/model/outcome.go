package model

// Outcome is the state an article reached in the compilation pipeline.
//
// The lifecycle is:
//
//	Discovered -> {Denied, ExtractFailed, Irrelevant, Processed} -> Stored | StoreFailed
type Outcome int

const (
	// OutcomeDiscovered means the URL came back from discovery and has not
	// been examined yet.
	OutcomeDiscovered Outcome = iota
	// OutcomeDenied means the politeness gatekeeper refused the URL.
	OutcomeDenied
	// OutcomeExtractFailed means the page was fetched but no text came out.
	OutcomeExtractFailed
	// OutcomeIrrelevant means the relevance filter rejected the article.
	OutcomeIrrelevant
	// OutcomeProcessed means abbreviation and summarization have run.
	OutcomeProcessed
	// OutcomeStored means the article was written to the store.
	OutcomeStored
	// OutcomeStoreFailed means the store rejected the write.
	OutcomeStoreFailed
)

// String returns the lowercase name used in logs and reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeDiscovered:
		return "discovered"
	case OutcomeDenied:
		return "denied"
	case OutcomeExtractFailed:
		return "extract_failed"
	case OutcomeIrrelevant:
		return "irrelevant"
	case OutcomeProcessed:
		return "processed"
	case OutcomeStored:
		return "stored"
	case OutcomeStoreFailed:
		return "store_failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON reports carry names.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// IsTerminal reports whether no further stage runs after this outcome.
func (o Outcome) IsTerminal() bool {
	switch o {
	case OutcomeDenied, OutcomeExtractFailed, OutcomeIrrelevant, OutcomeStored, OutcomeStoreFailed:
		return true
	default:
		return false
	}
}

// Outcomes lists every outcome in lifecycle order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeDiscovered,
		OutcomeDenied,
		OutcomeExtractFailed,
		OutcomeIrrelevant,
		OutcomeProcessed,
		OutcomeStored,
		OutcomeStoreFailed,
	}
}
