// Package extractor turns an HTML page into its title and article text.
//
// Extraction runs in two passes. The readability pass scores DOM blocks and
// keeps the main article, dropping navigation, advertising and footers. When
// it yields nothing, a selector pass keeps <article> (or <body>) with the
// usual non-content elements stripped. A separate metadata walk collects the
// publisher, publication date and canonical URL from <meta> tags.
//
// Extraction never fails loudly: any problem produces empty strings, and the
// orchestrator treats empty content as a failed extraction.
package extractor
