package crawler

import (
	"fmt"
	"sync"
	"time"
)

// DefaultMaxWait caps how long a crawl delay may block a fetch.
const DefaultMaxWait = 30 * time.Second

// HostClock remembers, per robots.txt URL, the earliest time the host may
// be contacted again.
//
// Entries are only ever added or moved forward. One HostClock is shared by
// every gatekeeper in the process so that concurrent candidates still
// respect a host's crawl delay together.
type HostClock struct {
	mu   sync.Mutex
	next map[string]time.Time
	now  func() time.Time
}

// HostClockOption configures a HostClock.
type HostClockOption func(*HostClock)

// WithNow replaces the time source.
func WithNow(now func() time.Time) HostClockOption {
	return func(c *HostClock) {
		c.now = now
	}
}

// NewHostClock creates an empty clock.
func NewHostClock(opts ...HostClockOption) *HostClock {
	c := &HostClock{
		next: make(map[string]time.Time),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reserve claims the next access slot for key and returns how long the
// caller must wait before using it.
//
//   - no entry: wait 0, next = now + delay
//   - now < next: wait = next - now; over maxWait denies and leaves the
//     entry untouched, otherwise next = now + wait + delay
//   - now >= next: wait 0, next = now + delay
//
// The check and the update happen under one lock, so two callers can never
// be handed the same slot.
func (c *HostClock) Reserve(key string, delay, maxWait time.Duration) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	next, ok := c.next[key]
	if !ok || !now.Before(next) {
		c.next[key] = now.Add(delay)
		return 0, nil
	}

	wait := next.Sub(now)
	if wait > maxWait {
		return 0, fmt.Errorf("%w: %s needs %v, cap is %v", ErrCrawlDelayExceeded, key, wait, maxWait)
	}
	c.next[key] = now.Add(wait).Add(delay)
	return wait, nil
}

// NextAccess returns the stored next-allowed time for key.
func (c *HostClock) NextAccess(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.next[key]
	return t, ok
}

// Len returns the number of hosts tracked.
func (c *HostClock) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.next)
}
