package crawler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/ballotnews/internal/extractor"
	"github.com/nao1215/ballotnews/internal/transport"
)

// fakeFetcher serves canned responses and records requested URLs.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]*transport.Response
	errs      map[string]error
	requested []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*transport.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requested = append(f.requested, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if resp, ok := f.responses[rawURL]; ok {
		return resp, nil
	}
	return &transport.Response{StatusCode: http.StatusNotFound}, nil
}

func (f *fakeFetcher) count(rawURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, u := range f.requested {
		if u == rawURL {
			n++
		}
	}
	return n
}

// bodyExtractor returns the page body as its content.
type bodyExtractor struct{}

func (bodyExtractor) ExtractResult(r io.Reader, _ string) (extractor.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return extractor.Result{}, err
	}
	if len(b) == 0 {
		return extractor.Result{}, extractor.ErrExtraction
	}
	return extractor.Result{Title: "Title", Content: string(b)}, nil
}

// fakeTime is a manually advanced clock with a recording sleeper.
type fakeTime struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeTime() *fakeTime {
	return &fakeTime{now: time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Sleep(_ context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleeps = append(f.sleeps, d)
	return nil
}

func ok(body string) *transport.Response {
	return &transport.Response{StatusCode: http.StatusOK, Body: []byte(body)}
}

func newTestGatekeeper(f *fakeFetcher, ft *fakeTime) *Gatekeeper {
	return NewGatekeeper(f, bodyExtractor{},
		WithClock(NewHostClock(WithNow(ft.Now))),
		WithSleeper(ft.Sleep),
	)
}

// TestRobotsURL tests policy file URL derivation.
func TestRobotsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://news.example.com/2024/10/story?id=1", want: "https://news.example.com/robots.txt"},
		{in: "http://news.example.com:8080/a", want: "http://news.example.com:8080/robots.txt"},
		{in: "/relative/path", wantErr: true},
		{in: "://broken", wantErr: true},
	}

	for _, tt := range tests {
		got, err := RobotsURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("RobotsURL(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("RobotsURL(%q) = %q, %v; expected %q", tt.in, got, err, tt.want)
		}
	}
}

// TestParseGrant tests robots.txt evaluation.
func TestParseGrant(t *testing.T) {
	t.Parallel()

	robots := []byte("User-agent: *\nDisallow: /private\nCrawl-delay: 5\n")

	tests := []struct {
		name       string
		status     int
		body       []byte
		url        string
		wantAccess bool
		wantDelay  time.Duration
		wantErr    error
	}{
		{name: "allowed path", status: 200, body: robots, url: "https://a.example.com/public/1", wantAccess: true, wantDelay: 5 * time.Second},
		{name: "disallowed path", status: 200, body: robots, url: "https://a.example.com/private/1", wantAccess: false, wantDelay: 5 * time.Second},
		{name: "no rules", status: 200, body: []byte(""), url: "https://a.example.com/x", wantAccess: true},
		{name: "not found fails closed", status: 404, url: "https://a.example.com/x", wantErr: ErrPolicyFetch},
		{name: "server error fails closed", status: 503, url: "https://a.example.com/x", wantErr: ErrPolicyFetch},
		{name: "forbidden fails closed", status: 403, url: "https://a.example.com/x", wantErr: ErrPolicyFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			grant, err := ParseGrant(tt.status, tt.body, tt.url, WildcardAgent)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if grant.HasAccess != tt.wantAccess {
				t.Errorf("got access %v, expected %v", grant.HasAccess, tt.wantAccess)
			}
			var delay time.Duration
			if grant.CrawlDelay != nil {
				delay = *grant.CrawlDelay
			}
			if delay != tt.wantDelay {
				t.Errorf("got delay %v, expected %v", delay, tt.wantDelay)
			}
		})
	}
}

// TestHostClockReserve tests the reservation rules.
func TestHostClockReserve(t *testing.T) {
	t.Parallel()

	ft := newFakeTime()
	clock := NewHostClock(WithNow(ft.Now))
	key := "https://a.example.com/robots.txt"
	delay := 10 * time.Second

	wait, err := clock.Reserve(key, delay, DefaultMaxWait)
	if err != nil || wait != 0 {
		t.Fatalf("first reservation: got %v, %v; expected 0, nil", wait, err)
	}

	wait, err = clock.Reserve(key, delay, DefaultMaxWait)
	if err != nil || wait != 10*time.Second {
		t.Fatalf("second reservation: got %v, %v; expected 10s", wait, err)
	}

	wait, err = clock.Reserve(key, delay, DefaultMaxWait)
	if err != nil || wait != 20*time.Second {
		t.Fatalf("third reservation: got %v, %v; expected 20s", wait, err)
	}

	// The next slot is 30s away, which equals the cap and is still allowed.
	wait, err = clock.Reserve(key, delay, DefaultMaxWait)
	if err != nil || wait != 30*time.Second {
		t.Fatalf("fourth reservation: got %v, %v; expected 30s", wait, err)
	}

	before, _ := clock.NextAccess(key)
	if _, err := clock.Reserve(key, delay, DefaultMaxWait); !errors.Is(err, ErrCrawlDelayExceeded) {
		t.Fatalf("expected ErrCrawlDelayExceeded, got %v", err)
	}
	after, _ := clock.NextAccess(key)
	if !before.Equal(after) {
		t.Error("denied reservation must not move the next access time")
	}

	// Once the clock passes the reserved time the host is free again.
	ft.mu.Lock()
	ft.now = after.Add(time.Second)
	ft.mu.Unlock()
	wait, err = clock.Reserve(key, delay, DefaultMaxWait)
	if err != nil || wait != 0 {
		t.Fatalf("after expiry: got %v, %v; expected 0", wait, err)
	}
	if clock.Len() != 1 {
		t.Errorf("got %d hosts, expected 1", clock.Len())
	}
}

// TestHostClockConcurrentReserve tests that concurrent callers get distinct slots.
func TestHostClockConcurrentReserve(t *testing.T) {
	t.Parallel()

	ft := newFakeTime()
	clock := NewHostClock(WithNow(ft.Now))

	const callers = 20
	waits := make(chan time.Duration, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := clock.Reserve("host", time.Second, time.Minute)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			waits <- w
		}()
	}
	wg.Wait()
	close(waits)

	seen := make(map[time.Duration]bool)
	for w := range waits {
		if seen[w] {
			t.Errorf("wait %v handed out twice", w)
		}
		seen[w] = true
	}
	if len(seen) != callers {
		t.Errorf("got %d distinct waits, expected %d", len(seen), callers)
	}
}

// TestGatekeeperDecide tests policy decisions end to end with fakes.
func TestGatekeeperDecide(t *testing.T) {
	t.Parallel()

	const page = "https://news.example.com/story"
	const robots = "https://news.example.com/robots.txt"

	t.Run("missing robots.txt fails closed without fetching the page", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: map[string]*transport.Response{page: ok("Jane Doe spoke.")}}
		d := newTestGatekeeper(f, newFakeTime()).Decide(context.Background(), page)

		if d.Allowed || !errors.Is(d.Err, ErrPolicyFetch) {
			t.Errorf("got allowed=%v err=%v", d.Allowed, d.Err)
		}
		if d.Article.Content != "" {
			t.Errorf("expected empty content, got %q", d.Article.Content)
		}
		if f.count(robots) != 1 || f.count(page) != 0 {
			t.Errorf("robots fetched %d times, page %d times", f.count(robots), f.count(page))
		}
	})

	t.Run("empty robots.txt allows and fetches", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: map[string]*transport.Response{
			robots: ok(""),
			page:   ok("Jane Doe spoke."),
		}}
		d := newTestGatekeeper(f, newFakeTime()).Decide(context.Background(), page)

		if !d.Allowed || d.Err != nil {
			t.Fatalf("got allowed=%v err=%v", d.Allowed, d.Err)
		}
		if d.Article.Content != "Jane Doe spoke." || d.Article.Title != "Title" {
			t.Errorf("got article %+v", d.Article)
		}
		if d.Article.URL != page {
			t.Errorf("got URL %q", d.Article.URL)
		}
	})

	t.Run("policy fetch timeout fails closed without fetching the page", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{
			errs:      map[string]error{robots: context.DeadlineExceeded},
			responses: map[string]*transport.Response{page: ok("body")},
		}
		d := newTestGatekeeper(f, newFakeTime()).Decide(context.Background(), page)

		if d.Allowed {
			t.Error("expected denial")
		}
		if !errors.Is(d.Err, ErrPolicyFetch) {
			t.Errorf("expected ErrPolicyFetch, got %v", d.Err)
		}
		if d.Article.Title != "" || d.Article.Content != "" {
			t.Errorf("expected empty article, got %+v", d.Article)
		}
		if f.count(page) != 0 {
			t.Error("page must not be fetched after a policy failure")
		}
	})

	t.Run("disallowed path", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: map[string]*transport.Response{
			robots: ok("User-agent: *\nDisallow: /story\n"),
			page:   ok("body"),
		}}
		d := newTestGatekeeper(f, newFakeTime()).Decide(context.Background(), page)

		if d.Allowed || !errors.Is(d.Err, ErrDisallowed) {
			t.Errorf("got allowed=%v err=%v", d.Allowed, d.Err)
		}
		if f.count(page) != 0 {
			t.Error("page must not be fetched when disallowed")
		}
	})

	t.Run("crawl delay spaces requests and denies past the cap", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: map[string]*transport.Response{
			robots: ok("User-agent: *\nCrawl-delay: 20\n"),
			page:   ok("body"),
		}}
		ft := newFakeTime()
		gk := newTestGatekeeper(f, ft)

		first := gk.Decide(context.Background(), page)
		if !first.Allowed || first.Err != nil {
			t.Fatalf("first: allowed=%v err=%v", first.Allowed, first.Err)
		}
		if len(ft.sleeps) != 0 {
			t.Errorf("first request must not wait, slept %v", ft.sleeps)
		}

		second := gk.Decide(context.Background(), page)
		if !second.Allowed {
			t.Fatalf("second: err=%v", second.Err)
		}
		if len(ft.sleeps) != 1 || ft.sleeps[0] != 20*time.Second {
			t.Errorf("second request must wait 20s, slept %v", ft.sleeps)
		}

		third := gk.Decide(context.Background(), page)
		if third.Allowed || !errors.Is(third.Err, ErrCrawlDelayExceeded) {
			t.Errorf("third: allowed=%v err=%v", third.Allowed, third.Err)
		}
		if third.Article.Content != "" {
			t.Error("denied article must have empty content")
		}
		if f.count(page) != 2 {
			t.Errorf("page fetched %d times, expected 2", f.count(page))
		}
	})

	t.Run("page fetch failure keeps empty content", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{
			responses: map[string]*transport.Response{robots: ok("")},
			errs:      map[string]error{page: errors.New("connection refused")},
		}
		d := newTestGatekeeper(f, newFakeTime()).Decide(context.Background(), page)

		if !errors.Is(d.Err, ErrPageFetch) {
			t.Errorf("expected ErrPageFetch, got %v", d.Err)
		}
		if d.Article.Content != "" {
			t.Errorf("expected empty content, got %q", d.Article.Content)
		}
	})

	t.Run("page error status", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: map[string]*transport.Response{
			robots: ok(""),
			page:   {StatusCode: http.StatusInternalServerError, Body: []byte("oops")},
		}}
		d := newTestGatekeeper(f, newFakeTime()).Decide(context.Background(), page)
		if !errors.Is(d.Err, ErrPageFetch) || d.Article.Content != "" {
			t.Errorf("got err=%v content=%q", d.Err, d.Article.Content)
		}
	})

	t.Run("invalid URL is denied", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{}
		d := newTestGatekeeper(f, newFakeTime()).Decide(context.Background(), "not a url")
		if d.Allowed || !errors.Is(d.Err, ErrPolicyFetch) {
			t.Errorf("got allowed=%v err=%v", d.Allowed, d.Err)
		}
		if len(f.requested) != 0 {
			t.Error("nothing must be fetched for an invalid URL")
		}
	})

	t.Run("cancelled wait denies", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{responses: map[string]*transport.Response{
			robots: ok("User-agent: *\nCrawl-delay: 5\n"),
			page:   ok("body"),
		}}
		ft := newFakeTime()
		gk := NewGatekeeper(f, bodyExtractor{},
			WithClock(NewHostClock(WithNow(ft.Now))),
		)

		ctx, cancel := context.WithCancel(context.Background())
		if d := gk.Decide(ctx, page); !d.Allowed {
			t.Fatalf("first: err=%v", d.Err)
		}
		cancel()
		d := gk.Decide(ctx, page)
		if d.Allowed || !errors.Is(d.Err, context.Canceled) {
			t.Errorf("got allowed=%v err=%v", d.Allowed, d.Err)
		}
	})
}

// TestGatekeeperWithServer tests the gatekeeper against a real HTTP server.
func TestGatekeeperWithServer(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
	})
	mux.HandleFunc("/news/story", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>County news</title></head>
<body><article><p>Jane Doe opened her campaign office downtown on Monday, greeting volunteers and neighbours.</p></article></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := transport.New()
	if err != nil {
		t.Fatal(err)
	}
	gk := NewGatekeeper(client, extractor.New())

	d := gk.Decide(context.Background(), srv.URL+"/news/story")
	if !d.Allowed || d.Err != nil {
		t.Fatalf("got allowed=%v err=%v", d.Allowed, d.Err)
	}
	if !strings.Contains(d.Article.Content, "campaign office downtown") {
		t.Errorf("got content %q", d.Article.Content)
	}

	denied := gk.Decide(context.Background(), srv.URL+"/admin/panel")
	if denied.Allowed || !errors.Is(denied.Err, ErrDisallowed) {
		t.Errorf("got allowed=%v err=%v", denied.Allowed, denied.Err)
	}
}
