package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// ErrExtraction is returned when a page yields no usable text.
var ErrExtraction = errors.New("content extraction failed")

// DefaultMaxBodySize caps how much of a page is read.
const DefaultMaxBodySize = 5 * 1024 * 1024 // 5 MB

// nonContentSelectors lists elements to strip before the fallback pass.
const nonContentSelectors = "script, style, nav, header, footer, aside, form, noscript"

// Result holds everything extracted from one page.
type Result struct {
	// Title is the article headline.
	Title string

	// Content is the whitespace-normalized article text.
	Content string

	// Meta holds metadata read from <meta> tags.
	Meta Metadata
}

// Extractor extracts article text from HTML.
type Extractor struct {
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxBodySize sets the maximum number of bytes read from a page.
func WithMaxBodySize(n int64) Option {
	return func(e *Extractor) {
		e.maxBodySize = n
	}
}

// WithLogger sets the extractor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract returns the title and article text of the page read from r.
// Both are empty when the page cannot be read or parsed.
func (e *Extractor) Extract(r io.Reader, pageURL string) (title, content string) {
	res, err := e.ExtractResult(r, pageURL)
	if err != nil {
		e.logger.Debug("extraction failed", "url", pageURL, "error", err)
		return "", ""
	}
	return res.Title, res.Content
}

// ExtractResult extracts title, text and metadata from the page read from r.
// The error wraps ErrExtraction and the result is zero whenever it is set.
func (e *Extractor) ExtractResult(r io.Reader, pageURL string) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{}
			err = fmt.Errorf("%w: panic: %v", ErrExtraction, p)
		}
	}()

	if r == nil {
		return Result{}, fmt.Errorf("%w: no page body", ErrExtraction)
	}
	body, err := io.ReadAll(io.LimitReader(r, e.maxBodySize))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read body: %w", ErrExtraction, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return Result{}, fmt.Errorf("%w: empty page", ErrExtraction)
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: parse html: %w", ErrExtraction, err)
	}
	res.Meta = ReadMetadata(root)

	title, text := readabilityPass(body, pageURL)
	if text == "" {
		doc := goquery.NewDocumentFromNode(root)
		text = selectorPass(doc)
		if title == "" {
			title = pageTitle(doc)
		}
	}
	if title == "" {
		title = res.Meta.Title
	}

	res.Title = normalizeSpace(title)
	res.Content = text
	if res.Content == "" {
		return Result{}, fmt.Errorf("%w: no article text", ErrExtraction)
	}
	return res, nil
}

// readabilityPass runs the readability scorer over the page.
// It returns empty strings when readability cannot identify an article.
func readabilityPass(body []byte, pageURL string) (title, text string) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil || !parsedURL.IsAbs() {
		// Readability resolves links against the page URL and needs one.
		return "", ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(article.Title), normalizeSpace(article.TextContent)
}

// selectorPass keeps <article> or <body> after removing non-content elements.
func selectorPass(doc *goquery.Document) string {
	for _, selector := range []string{"article", "body"} {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		sel.Find(nonContentSelectors).Remove()
		if text := textOf(sel); text != "" {
			return text
		}
	}
	return ""
}

// pageTitle prefers <title> and falls back to og:title.
func pageTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists {
		return strings.TrimSpace(ogTitle)
	}
	return ""
}

// textOf joins the text nodes under sel with single spaces.
// goquery's Text concatenates adjacent blocks without a separator, which
// would glue the last word of one paragraph to the first of the next.
func textOf(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return normalizeSpace(strings.Join(parts, " "))
}

// normalizeSpace collapses every whitespace run to a single space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
