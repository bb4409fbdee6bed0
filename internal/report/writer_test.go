package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/ballotnews/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.CandidateReport {
	started := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	report := model.NewCandidateReport("run-1", model.NewCandidate("Jane Doe", model.StringPtr("Green")), started)

	published := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	stored := &model.Article{
		URL:                "https://news.example.com/debate",
		Title:              "Doe wins debate",
		Publisher:          model.StringPtr("Springfield Gazette"),
		PublishedDate:      &published,
		Content:            "Jane Doe won the debate. Voters cheered.",
		AbbreviatedContent: "Jane Doe won the debate.",
		SummarizedContent:  "Jane Doe won the debate.",
		Priority:           1,
	}
	report.AddResult(model.ArticleResult{
		URL: stored.URL, Priority: 1, Outcome: model.OutcomeStored, Article: stored,
	})
	report.AddResult(model.ArticleResult{
		URL: "https://blocked.example.com/x", Priority: 2, Outcome: model.OutcomeDenied,
		Reason: "disallowed by robots.txt",
	})
	report.AddResult(model.ArticleResult{
		URL: "https://weather.example.com/rain", Priority: 3, Outcome: model.OutcomeIrrelevant,
		Reason:  "article is not relevant to the candidate",
		Article: &model.Article{URL: "https://weather.example.com/rain", Title: "雨の予報", Priority: 3},
	})
	report.CompletedAt = started.Add(90 * time.Second)
	return report
}

func createTestRecords() []model.Record {
	report := createTestReport()
	return []model.Record{{
		Key:         "abc",
		CandidateID: "jane-doe",
		RunID:       "run-1",
		Article:     *report.Results[0].Article,
	}}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatText},
		{input: "text", want: FormatText},
		{input: "JSON", want: FormatJSON},
		{input: "md", want: FormatMarkdown},
		{input: "markdown", want: FormatMarkdown},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and outcome summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"BALLOTNEWS REPORT",
			"Candidate:  Jane Doe",
			"Party:      Green",
			"STORED:",
			"DENIED:",
			"3 URLs",
			"Doe wins debate",
			"https://blocked.example.com/x",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "STORE_FAILED:") {
			t.Error("empty outcomes should be hidden by default")
		}
		if strings.Contains(output, "SUMMARIES") {
			t.Error("summaries should only appear in verbose mode")
		}
	})

	t.Run("aligns wide titles by display width", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var stored, irrelevant string
		for _, line := range strings.Split(buf.String(), "\n") {
			switch {
			case strings.Contains(line, "Doe wins debate"):
				stored = line
			case strings.Contains(line, "雨の予報"):
				irrelevant = line
			}
		}
		if stored == "" || irrelevant == "" {
			t.Fatal("result rows not found")
		}
		if strings.Index(stored, "Doe wins") != strings.Index(irrelevant, "雨") {
			t.Errorf("title columns are misaligned:\n%s\n%s", stored, irrelevant)
		}
	})

	t.Run("verbose mode adds summaries and reasons", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "SUMMARIES") || !strings.Contains(output, "disallowed by robots.txt") {
			t.Error("expected summaries and reasons in verbose output")
		}
	})

	t.Run("shows error status", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Error = "discovery failed"
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - discovery failed") {
			t.Error("expected error status")
		}
	})

	t.Run("shows empty outcomes when requested", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "STORE_FAILED:") {
			t.Error("expected empty outcome rows")
		}
	})

	t.Run("writes stored records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRecords("jane-doe", createTestRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"Stored articles for jane-doe (1)", "2024-09-30", "Springfield Gazette"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("writes empty records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRecords("nobody", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No articles stored") {
			t.Error("expected empty message")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report with counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Report struct {
				RunID   string `json:"run_id"`
				Results []struct {
					Outcome string `json:"outcome"`
				} `json:"results"`
			} `json:"report"`
			Counts map[string]int `json:"counts"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Report.RunID != "run-1" {
			t.Errorf("run_id = %q", decoded.Report.RunID)
		}
		if decoded.Report.Results[0].Outcome != "stored" {
			t.Errorf("outcome = %q, want stored", decoded.Report.Results[0].Outcome)
		}
		if decoded.Counts["stored"] != 1 || decoded.Counts["denied"] != 1 {
			t.Errorf("counts = %v", decoded.Counts)
		}
		if _, ok := decoded.Counts["store_failed"]; ok {
			t.Error("zero counts should be omitted")
		}
	})

	t.Run("compact output has a single line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact JSON terminated by a newline")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"report\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("empty records encode as an empty list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRecords("nobody", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"records":[]`) {
			t.Errorf("got %s", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables, chart and articles", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Ballotnews Report: Jane Doe",
			"## Outcome Summary",
			"| stored | 1 |",
			"```mermaid",
			"## Discovered URLs",
			"### Doe wins debate",
			"Jane Doe won the debate.",
			"[!TIP]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("error report uses a caution alert", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Error = "context canceled"
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Error("expected caution alert")
		}
	})

	t.Run("writes stored records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRecords("jane-doe", createTestRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# Stored articles: jane-doe") ||
			!strings.Contains(output, "[Doe wins debate](https://news.example.com/debate)") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected output in both writers")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"日本語のテキスト", 5, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}
