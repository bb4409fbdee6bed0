package processor

import "strings"

// DefaultWordLimit is the number of words kept by Abbreviate.
const DefaultWordLimit = 100

// Abbreviate returns the first DefaultWordLimit words of content.
func Abbreviate(content string) string {
	return AbbreviateWords(content, DefaultWordLimit)
}

// AbbreviateWords returns the first limit words of content.
//
// Words are the pieces between single space characters, so runs of spaces
// produce empty words that count toward the limit. Content with at most
// limit words comes back unchanged.
func AbbreviateWords(content string, limit int) string {
	if limit <= 0 {
		return ""
	}
	words := strings.Split(content, " ")
	if len(words) <= limit {
		return content
	}
	return strings.Join(words[:limit], " ")
}
