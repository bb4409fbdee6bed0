package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/ballotnews/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for sharing compiled articles.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, alerts and mermaid charts without
// hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the compile report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CandidateReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeResults(md, report)
	w.writeArticles(md, report.StoredArticles())
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteRecords outputs the stored articles of a candidate in Markdown format.
func (w *MarkdownWriter) WriteRecords(candidateID string, records []model.Record) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Stored articles: " + candidateID)
	md.PlainText("")

	if len(records) == 0 {
		md.Note("No articles are stored for this candidate.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	articles := make([]model.Article, len(records))
	for i := range records {
		articles[i] = records[i].Article
	}
	w.writeArticleTable(md, articles)
	w.writeArticles(md, articles)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CandidateReport) {
	md.H1("Ballotnews Report: " + report.Candidate.Name)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Candidate", report.Candidate.Name},
			{"Party", orDash(report.Candidate.PartyName())},
			{"Run ID", "`" + report.RunID + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().String()},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on report state.
func statusText(report *model.CandidateReport) string {
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	return "✅ Complete"
}

// writeSummary writes the outcome table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CandidateReport) {
	md.H2("Outcome Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Outcomes())+1)
	for _, outcome := range model.Outcomes() {
		rows = append(rows, []string{outcome.String(), strconv.Itoa(report.Count(outcome))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(report.Results)) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.Results) > 0 {
		w.writePieChart(md, report)
	}
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CandidateReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Article Outcomes"),
		piechart.WithShowData(true),
	)
	for _, outcome := range model.Outcomes() {
		if n := report.Count(outcome); n > 0 {
			chart.LabelAndIntValue(outcome.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert describing how the run went.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CandidateReport) {
	stored := report.Count(model.OutcomeStored)
	switch {
	case report.Error != "":
		md.Cautionf("The run ended early: %s", report.Error)
	case report.Count(model.OutcomeStoreFailed) > 0:
		md.Warningf("%d article(s) could not be stored.", report.Count(model.OutcomeStoreFailed))
	case stored == 0:
		md.Note("No relevant articles were found.")
	default:
		md.Tip(strconv.Itoa(stored) + " article(s) compiled.")
	}
	md.PlainText("")
}

// writeResults writes one row per discovered URL.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.CandidateReport) {
	md.H2("Discovered URLs")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.PlainText("No URLs were discovered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Results))
	for i, res := range report.Results {
		rows[i] = []string{
			strconv.Itoa(res.Priority),
			res.Outcome.String(),
			markdown.Link(truncateString(res.URL, 60), res.URL),
			orDash(truncateString(res.Reason, 60)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Outcome", "URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeArticleTable writes an overview table of articles.
func (w *MarkdownWriter) writeArticleTable(md *markdown.Markdown, articles []model.Article) {
	rows := make([][]string, len(articles))
	for i := range articles {
		a := &articles[i]
		rows[i] = []string{
			strconv.Itoa(a.Priority),
			formatDate(a),
			orDash(a.PublisherName()),
			markdown.Link(escapeCell(displayTitle(a)), a.URL),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Date", "Publisher", "Title"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeArticles writes each article with its summary.
func (w *MarkdownWriter) writeArticles(md *markdown.Markdown, articles []model.Article) {
	if len(articles) == 0 {
		return
	}

	md.H2("Articles")
	md.PlainText("")
	for i := range articles {
		a := &articles[i]
		md.H3(displayTitle(a))
		md.PlainText("")
		md.BulletList(
			"URL: "+a.URL,
			"Publisher: "+orDash(a.PublisherName()),
			"Published: "+formatDate(a),
		)
		md.PlainText("")
		if a.SummarizedContent != "" {
			md.PlainText(a.SummarizedContent)
			md.PlainText("")
		}
		if a.AbbreviatedContent != "" {
			md.Details("Opening words", a.AbbreviatedContent)
			md.PlainText("")
		}
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [ballotnews](https://github.com/nao1215/ballotnews)*")
}

// escapeCell keeps a value from breaking a table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
