// Package salience measures how central a named entity is to a text.
//
// The Service interface is the seam used by the relevance filter. The
// production implementation asks the Cloud Natural Language entity analysis
// endpoint for every entity in the text and reports the salience of the
// entity whose name matches.
package salience
