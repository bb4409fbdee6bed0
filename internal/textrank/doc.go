// Package textrank ranks sentences by their similarity to each other.
//
// The package is pure: it builds an undirected weighted graph whose vertices
// are sentence indexes and whose edges carry cosine similarity, then scores
// the vertices with weighted PageRank. Nothing here knows about HTML or
// articles; callers supply token lists and receive scores or indexes.
//
// Design decision: Rank propagation runs over plain adjacency lists instead
// of a graph framework. Summaries are built from a few dozen sentences at a
// time, so a self-contained iteration is both fast and easy to verify.
package textrank
