package extractor

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PublisherKeys lists the meta tags that name the publisher, most specific first.
var PublisherKeys = []string{
	"article:publisher",
	"og:site_name",
	"twitter:app:name:googleplay",
	"dc.source",
}

// PublishedDateKeys lists the meta tags that carry a publication date,
// most specific first. Modification dates are the last resort.
var PublishedDateKeys = []string{
	"article:published_time",
	"article:published",
	"datepublished",
	"og:pubdate",
	"pubdate",
	"published",
	"article:modified_time",
	"article:modified",
	"modified",
}

// DateLayouts are the timestamp layouts accepted in date meta tags.
var DateLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
}

// Metadata is the page information found in <meta> tags.
type Metadata struct {
	// Tags maps lowercased name/property/itemprop keys to their content.
	// The first occurrence of a key wins.
	Tags map[string]string

	// Title is og:title, used when the page has no <title>.
	Title string

	// CanonicalURL is og:url.
	CanonicalURL string
}

// Publisher returns the first non-blank publisher tag, or nil.
func (m Metadata) Publisher() *string {
	return FirstString(m.Tags, PublisherKeys)
}

// PublishedDate returns the first publication date tag that parses, or nil.
func (m Metadata) PublishedDate() *time.Time {
	return FirstTime(m.Tags, PublishedDateKeys)
}

// FirstString returns the first non-blank value among keys.
func FirstString(tags map[string]string, keys []string) *string {
	for _, key := range keys {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return &v
		}
	}
	return nil
}

// FirstTime returns the first value among keys that parses as a date.
// Unparsable values are skipped in favour of the next key.
func FirstTime(tags map[string]string, keys []string) *time.Time {
	for _, key := range keys {
		v := strings.TrimSpace(tags[key])
		if v == "" {
			continue
		}
		if t, ok := ParseDate(v); ok {
			return &t
		}
	}
	return nil
}

// ParseDate parses s with the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReadMetadata walks the document and collects <meta> tags.
func ReadMetadata(root *html.Node) Metadata {
	meta := Metadata{Tags: make(map[string]string)}
	if root == nil {
		return meta
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			key := getAttr(n, "property")
			if key == "" {
				key = getAttr(n, "name")
			}
			if key == "" {
				key = getAttr(n, "itemprop")
			}
			key = strings.ToLower(strings.TrimSpace(key))
			if key != "" {
				if _, seen := meta.Tags[key]; !seen {
					meta.Tags[key] = getAttr(n, "content")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	meta.Title = strings.TrimSpace(meta.Tags["og:title"])
	meta.CanonicalURL = strings.TrimSpace(meta.Tags["og:url"])
	return meta
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
