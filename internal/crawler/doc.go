// Package crawler decides whether, and when, a news URL may be fetched.
//
// # Architecture
//
// The package is built around the Gatekeeper type, which answers one
// question per URL: may this page be fetched right now, and if so, what
// does it say? It consults the site's robots.txt, honours its crawl delay
// through a shared HostClock, then fetches the page and hands the body to
// the content extractor.
//
// # Components
//
//   - Gatekeeper: Policy lookup, delay scheduling and page fetch
//   - HostClock: Per-host next-allowed access times
//   - Grant: The access decision read from robots.txt
//
// # Politeness
//
// The gatekeeper fails closed:
//   - A robots.txt that cannot be fetched or parsed denies the URL,
//     and a missing one (404) counts as not fetched
//   - A crawl-delay wait longer than the cap denies the URL rather than stalling
//
// There are no retries. Every failure is a terminal outcome for that URL.
//
// # Usage
//
//	gk := crawler.NewGatekeeper(client, ext, crawler.WithClock(clock))
//	decision := gk.Decide(ctx, "https://news.example.com/story")
//	if decision.Allowed {
//		fmt.Println(decision.Article.Content)
//	}
package crawler
