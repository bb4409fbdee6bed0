package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/ballotnews/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report together with per-outcome counts.
func (w *JSONWriter) Write(report *model.CandidateReport) (int, error) {
	return w.writeJSON(NewJSONReport(report))
}

// WriteRecords outputs the stored records of a candidate.
func (w *JSONWriter) WriteRecords(candidateID string, records []model.Record) (int, error) {
	if records == nil {
		records = []model.Record{}
	}
	return w.writeJSON(struct {
		CandidateID string         `json:"candidate_id"`
		Records     []model.Record `json:"records"`
	}{candidateID, records})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a CandidateReport with derived counts.
//
// Design decision: We wrap the report rather than adding the counts to
// CandidateReport so the stored data model stays free of output concerns.
type JSONReport struct {
	// Report is the full compile report.
	Report *model.CandidateReport `json:"report"`

	// Counts maps outcome names to the number of URLs that reached them.
	// Outcomes with no URLs are omitted.
	Counts map[string]int `json:"counts"`
}

// NewJSONReport creates a JSONReport with counts per outcome.
func NewJSONReport(report *model.CandidateReport) *JSONReport {
	counts := make(map[string]int)
	for _, outcome := range model.Outcomes() {
		if n := report.Count(outcome); n > 0 {
			counts[outcome.String()] = n
		}
	}
	return &JSONReport{
		Report: report,
		Counts: counts,
	}
}
