package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultConnectTimeout bounds TCP connection establishment.
	DefaultConnectTimeout = 1 * time.Second

	// DefaultReadTimeout bounds each socket read.
	DefaultReadTimeout = 1 * time.Second

	// DefaultUserAgent identifies the crawler to site operators.
	DefaultUserAgent = "ballotnews/1.0 (+https://github.com/nao1215/ballotnews)"

	// DefaultMaxBodySize limits response bodies read by Fetch.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5 MB

	// maxRedirects limits redirect chains.
	maxRedirects = 10
)

// Client builds HTTP clients with independent connect and read timeouts.
type Client struct {
	connectTimeout time.Duration
	readTimeout    time.Duration
	userAgent      string
	maxBodySize    int64
	proxyAddress   string
	dialer         proxy.ContextDialer
	httpClient     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithConnectTimeout sets the connect timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.connectTimeout = d
	}
}

// WithReadTimeout sets the per-read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.readTimeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of body bytes Fetch reads.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.maxBodySize = n
	}
}

// WithProxy routes connections through the SOCKS5 proxy at address.
// An empty address means direct connections.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// New creates a Client.
//
// The proxy address is validated but not contacted.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		connectTimeout: DefaultConnectTimeout,
		readTimeout:    DefaultReadTimeout,
		userAgent:      DefaultUserAgent,
		maxBodySize:    DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.connectTimeout <= 0 || c.readTimeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	direct := &net.Dialer{Timeout: c.connectTimeout}
	c.dialer = direct
	if c.proxyAddress != "" {
		if !isValidProxyAddress(c.proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		// Proxies normally need no credentials on a local port.
		d, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer does not support contexts: %w", ErrInvalidProxyAddress)
		}
		c.dialer = cd
	}

	c.httpClient = c.newHTTPClient()
	return c, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// newHTTPClient assembles the transport.
//
// http.Client.Timeout stays unset because it bounds the whole exchange.
// The read bound comes from timeoutConn, which refreshes the deadline on
// every Read.
func (c *Client) newHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
			defer cancel()
			conn, err := c.dialer.DialContext(dialCtx, network, addr)
			if err != nil {
				return nil, err
			}
			return &timeoutConn{Conn: conn, readTimeout: c.readTimeout}, nil
		},
		TLSHandshakeTimeout:   c.connectTimeout,
		ResponseHeaderTimeout: c.readTimeout,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
	}

	return &http.Client{
		Transport: &headerInjectingTransport{
			base: transport,
			headers: map[string]string{
				"User-Agent":      c.userAgent,
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Accept-Language": "en-US,en;q=0.5",
			},
		},
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// HTTPClient returns the configured *http.Client. It is shared and safe for
// concurrent use.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// UserAgent returns the User-Agent sent with requests.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// ReadTimeout returns the per-read timeout.
func (c *Client) ReadTimeout() time.Duration {
	return c.readTimeout
}

// Response is a fully read HTTP response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the response body, truncated to the client's body limit.
	Body []byte
}

// Fetch performs a GET request and reads the whole (size-limited) body.
// Non-2xx statuses are not errors; callers inspect StatusCode.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrRequest, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// timeoutConn refreshes the read deadline before every Read.
type timeoutConn struct {
	net.Conn
	readTimeout time.Duration
}

// Read implements net.Conn.
func (c *timeoutConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// default headers into every request that does not set them.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clone := req.Clone(req.Context())
	for key, value := range t.headers {
		if clone.Header.Get(key) == "" {
			clone.Header.Set(key, value)
		}
	}
	return t.base.RoundTrip(clone)
}
