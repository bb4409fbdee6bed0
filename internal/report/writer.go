package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/ballotnews/internal/model"
)

// ErrUnknownFormat is returned by ParseFormat for an unsupported name.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer defines the interface for report output.
// Implementations write compilation results in various formats.
type Writer interface {
	// Write outputs the result of one compile run.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.CandidateReport) (int, error)

	// WriteRecords outputs the articles stored for a candidate.
	WriteRecords(candidateID string, records []model.Record) (int, error)
}

// Format names an output format.
type Format string

const (
	// FormatText is the human-readable text format.
	FormatText Format = "text"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
	// FormatMarkdown is the Markdown format.
	FormatMarkdown Format = "markdown"
)

// ParseFormat converts a user supplied name into a Format.
// "md" is accepted as an alias for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "simple":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// NewWriter returns the writer for format.
// Verbose text output includes article summaries.
func NewWriter(format Format, output io.Writer, verbose bool) Writer {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	default:
		return NewSimpleWriter(output, WithVerbose(verbose))
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.CandidateReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteRecords outputs the records to all configured Writers.
func (m *MultiWriter) WriteRecords(candidateID string, records []model.Record) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteRecords(candidateID, records)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// displayTitle returns the article title, or its URL when the title is empty.
func displayTitle(a *model.Article) string {
	if a == nil {
		return ""
	}
	if strings.TrimSpace(a.Title) != "" {
		return a.Title
	}
	return a.URL
}

// formatDate renders an optional date or "-".
func formatDate(a *model.Article) string {
	if a == nil || a.PublishedDate == nil {
		return "-"
	}
	return a.PublishedDate.Format("2006-01-02")
}

// orDash returns s or "-" when s is blank.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
