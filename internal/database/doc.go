// Package database provides SQLite-based storage for compiled articles.
//
// This package implements the ArticleStore, which stores:
//   - Articles keyed by a BLAKE2b hash of their URL
//   - The candidates each article was found relevant to
//
// Design decision: An article relevant to several candidates is stored once
// in the articles table and referenced from candidate_articles. Two
// candidates sharing one URL therefore never overwrite each other's
// association, and a re-run for the same candidate replaces its row.
//
// We use SQLite via modernc.org/sqlite, a CGO-free driver, so the store is a
// single file next to the rest of the application data.
package database
