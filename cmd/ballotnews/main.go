// Package main provides the entry point for the ballotnews CLI.
//
// ballotnews compiles news articles about election candidates. For each
// candidate it discovers articles, fetches them politely (robots.txt and
// crawl delays), keeps the ones where the candidate is salient, and stores
// an abbreviation and an extractive summary of each.
//
// Usage:
//
//	ballotnews compile "Jane Doe"
//	ballotnews compile --candidates candidates.txt
//	ballotnews schedule --cron "0 */6 * * *"
//
// See --help for all available options.
package main

// main is the entry point for ballotnews.
func main() {
	Execute()
}
