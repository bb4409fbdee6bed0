// Package processor derives the short forms of an article body.
//
// Two independent derivations run over the extracted text:
//   - Abbreviate keeps the first words of the content
//   - Summarizer picks the most central sentences with TextRank
//
// Neither derivation reads the other's output. A failed summary leaves the
// abbreviation intact and vice versa.
package processor
