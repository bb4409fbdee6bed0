package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nao1215/ballotnews/internal/model"
)

// lineWidth is the width of section rules.
const lineWidth = 78

// titleWidth is the display width reserved for titles in result tables.
const titleWidth = 48

// SimpleWriter outputs human-readable text reports.
//
// Design decision: Column widths are measured with go-runewidth rather than
// len, so headlines in CJK scripts or with emoji still line up.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether outcomes with no URLs are listed.
	showEmpty bool

	// verbose adds article summaries to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show outcomes with zero URLs.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with article summaries.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the compile report in human-readable format.
func (w *SimpleWriter) Write(report *model.CandidateReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeResults(&sb, report)
	if w.verbose {
		w.writeSummaries(&sb, report.StoredArticles())
	}
	writeRule(&sb, "=")

	return w.output.Write([]byte(sb.String()))
}

// WriteRecords outputs the articles stored for a candidate.
func (w *SimpleWriter) WriteRecords(candidateID string, records []model.Record) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "=")
	sb.WriteString(fmt.Sprintf("Stored articles for %s (%d)\n", candidateID, len(records)))
	writeRule(&sb, "=")
	sb.WriteString("\n")

	if len(records) == 0 {
		sb.WriteString("  No articles stored\n\n")
		return w.output.Write([]byte(sb.String()))
	}

	rows := make([][]string, len(records))
	for i := range records {
		a := &records[i].Article
		rows[i] = []string{
			strconv.Itoa(a.Priority),
			formatDate(a),
			orDash(a.PublisherName()),
			displayTitle(a),
		}
	}
	writeTable(&sb, []string{"#", "DATE", "PUBLISHER", "TITLE"}, rows)

	if w.verbose {
		articles := make([]model.Article, len(records))
		for i := range records {
			articles[i] = records[i].Article
		}
		w.writeSummaries(&sb, articles)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CandidateReport) {
	sb.WriteString("\n")
	writeRule(sb, "=")
	sb.WriteString("                         BALLOTNEWS REPORT\n")
	writeRule(sb, "=")
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", report.Candidate.Name))
	if party := report.Candidate.PartyName(); party != "" {
		sb.WriteString(fmt.Sprintf("Party:      %s\n", party))
	}
	sb.WriteString(fmt.Sprintf("Run ID:     %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", report.Duration()))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:     ERROR - %s\n", report.Error))
	} else {
		sb.WriteString("Status:     Complete\n")
	}
	sb.WriteString("\n")
}

// writeSummary writes the number of URLs per outcome.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.CandidateReport) {
	writeSection(sb, "OUTCOME SUMMARY")

	for _, outcome := range model.Outcomes() {
		n := report.Count(outcome)
		if n == 0 && !w.showEmpty {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-15s %d\n", strings.ToUpper(outcome.String())+":", n))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %-15s %d URLs\n", "TOTAL:", len(report.Results)))
	sb.WriteString("\n")
}

// writeResults writes one row per discovered URL.
func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.CandidateReport) {
	if len(report.Results) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "ARTICLES")

	if len(report.Results) == 0 {
		sb.WriteString("  No articles discovered\n\n")
		return
	}

	rows := make([][]string, len(report.Results))
	for i, res := range report.Results {
		title := res.URL
		if res.Article != nil {
			title = displayTitle(res.Article)
		}
		rows[i] = []string{
			strconv.Itoa(res.Priority),
			res.Outcome.String(),
			title,
		}
	}
	writeTable(sb, []string{"#", "OUTCOME", "TITLE"}, rows)

	for _, res := range report.Results {
		if res.Reason != "" && w.verbose {
			sb.WriteString(fmt.Sprintf("  [%d] %s\n", res.Priority, res.Reason))
		}
	}
	sb.WriteString("\n")
}

// writeSummaries writes the summary of each article.
func (w *SimpleWriter) writeSummaries(sb *strings.Builder, articles []model.Article) {
	if len(articles) == 0 {
		return
	}

	writeSection(sb, "SUMMARIES")
	for i := range articles {
		a := &articles[i]
		sb.WriteString(fmt.Sprintf("* %s\n", displayTitle(a)))
		sb.WriteString(fmt.Sprintf("  %s\n", a.URL))
		summary := a.SummarizedContent
		if summary == "" {
			summary = a.AbbreviatedContent
		}
		if summary != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", summary))
		}
		sb.WriteString("\n")
	}
}

// writeTable writes left-aligned columns sized by display width.
// The last column is truncated to titleWidth.
func writeTable(sb *strings.Builder, header []string, rows [][]string) {
	last := len(header) - 1
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		row[last] = runewidth.Truncate(row[last], titleWidth, "...")
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	writeRow := func(cells []string) {
		sb.WriteString(" ")
		for i, cell := range cells {
			sb.WriteString(" ")
			if i == last {
				sb.WriteString(cell)
				continue
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
}

// writeSection writes a titled section separator.
func writeSection(sb *strings.Builder, title string) {
	writeRule(sb, "-")
	sb.WriteString(title)
	sb.WriteString("\n")
	writeRule(sb, "-")
	sb.WriteString("\n")
}

// writeRule writes a horizontal rule.
func writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, lineWidth))
	sb.WriteString("\n")
}
