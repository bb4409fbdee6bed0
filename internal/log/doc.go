// Package log provides secure logging built on top of the standard slog package.
//
// The SecureHandler sanitizes log output before it reaches the underlying
// handler:
//   - HTTP headers (Authorization, Cookie, X-Goog-Api-Key)
//   - credential attributes such as search_key, language_key or token
//   - Google API keys, JWTs and bearer tokens detected by value
//   - key= and cx= query parameters inside logged URLs and error messages
//
// The search and language services authenticate with a key in the request
// URL, so transport errors quoting that URL are the main leak this guards
// against. Even in verbose mode the credentials are masked.
//
// # Usage
//
//	logger := log.New(os.Stderr, verbose, jsonOutput)
//	slog.SetDefault(logger)
//
//	logger.Warn("search failed",
//	    "url", "https://www.googleapis.com/customsearch/v1?key=AIza...&q=x",
//	) // url=https://www.googleapis.com/customsearch/v1?key=***REDACTED***&q=x
package log
