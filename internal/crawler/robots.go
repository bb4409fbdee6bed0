package crawler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

// WildcardAgent is the user-agent group consulted in robots.txt.
const WildcardAgent = "*"

// Grant is the access decision for one URL.
type Grant struct {
	// HasAccess is true when the URL may be fetched.
	HasAccess bool

	// CrawlDelay is the minimum interval between requests to the host,
	// nil when the site sets none.
	CrawlDelay *time.Duration
}

// RobotsURL returns scheme://host/robots.txt for pageURL.
func RobotsURL(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q has no scheme or host", pageURL)
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String(), nil
}

// requestPath returns the path (and query) robots rules are matched against.
func requestPath(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "/"
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

// ParseGrant evaluates a robots.txt response for pageURL and agent.
//
// Any non-2xx status, 404 included, or a body that does not parse is an
// error and the caller must deny the URL. An empty 2xx body grants full
// access with no delay.
func ParseGrant(statusCode int, body []byte, pageURL, agent string) (Grant, error) {
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return Grant{}, fmt.Errorf("%w: robots.txt status %d", ErrPolicyFetch, statusCode)
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return Grant{}, fmt.Errorf("%w: parse robots.txt: %w", ErrPolicyFetch, err)
	}

	group := data.FindGroup(agent)
	grant := Grant{HasAccess: group.Test(requestPath(pageURL))}
	if group.CrawlDelay > 0 {
		delay := group.CrawlDelay
		grant.CrawlDelay = &delay
	}
	return grant, nil
}
