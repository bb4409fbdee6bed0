// Package model defines the core data structures used throughout ballotnews.
//
// This package contains the following main types:
//   - Article: A discovered news article with extracted and derived content
//   - Candidate: The person (and optional party) articles are compiled for
//   - Outcome: The terminal state an article reached in the pipeline
//   - CandidateReport: The result of one compilation run for a candidate
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The crawler, pipeline, database, and report packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output.
package model
