// Package pipeline compiles news articles for candidates.
//
// Each discovered URL passes through a fixed sequence of stages: the
// politeness gatekeeper (robots.txt, crawl delay, fetch and extraction), the
// relevance filter, the content processor and the store. Each stage is a
// Stage that records its verdict in the run's StageResult.
//
// Design decision: Stage failures are values, not errors. A denied URL, an
// empty page or an unavailable salience service ends that URL with a
// terminal Outcome and the Compiler moves on to the next URL. Only context
// cancellation is returned as an error, because it ends the whole run.
//
// Candidates are compiled one URL at a time. The BatchProcessor compiles
// several candidates concurrently using errgroup; they share one host clock
// so that crawl delays hold across candidates.
package pipeline
