package processor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
	"github.com/kljensen/snowball"
)

// abbreviations lists, per language, the lowercase words without their
// final period that end in "." without ending a sentence: titles that
// precede names and the short forms that appear mid-sentence in news copy.
var abbreviations = map[string]map[string]struct{}{
	"english": wordSet(
		// titles
		"mr", "mrs", "ms", "mx", "dr", "prof", "rev", "hon", "sr", "jr", "st",
		"sen", "sens", "rep", "reps", "gov", "govs", "lt", "pres", "supt", "atty",
		"gen", "col", "maj", "capt", "cmdr", "adm", "sgt", "cpl", "pvt", "amb",
		"assemb", "insp", "det", "treas", "cong", "ald",
		// mid-sentence short forms
		"vs", "approx", "dept", "univ", "mt", "ft", "ave",
		"blvd", "rd", "hwy", "jan", "feb", "mar", "apr", "jun", "jul", "aug",
		"sep", "sept", "oct", "nov", "dec", "e.g", "i.e", "u.s", "u.k", "u.n",
		"a.m", "p.m", "d.c",
	),
}

func wordSet(list ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, w := range list {
		set[w] = struct{}{}
	}
	return set
}

// Segmenter splits text into sentences for one language.
//
// Unicode sentence boundaries (UAX #29) break after every period followed
// by a space and a capital letter, so "Sen. Jane Doe" would become two
// sentences. Segments ending in a known abbreviation of the language, or
// in a single capital initial, are joined with the segment that follows.
type Segmenter struct {
	// Language selects the abbreviation table. Empty means "english". A
	// language without a table only joins across single-letter initials.
	Language string
}

// Segment splits English content into trimmed, non-blank sentences.
func Segment(content string) ([]string, error) {
	return Segmenter{}.Sentences(content)
}

// Sentences splits content into trimmed, non-blank sentences.
func (s Segmenter) Sentences(content string) ([]string, error) {
	lang := s.Language
	if lang == "" {
		lang = "english"
	}
	abbrevs := abbreviations[lang]
	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrSegmentation)
	}

	var out []string
	var pending string
	iter := sentences.FromString(content)
	for iter.Next() {
		seg := strings.TrimSpace(iter.Value())
		if seg == "" {
			continue
		}
		if pending != "" {
			seg = pending + " " + seg
			pending = ""
		}
		if endsWithAbbreviation(seg, abbrevs) {
			pending = seg
			continue
		}
		out = append(out, seg)
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out, nil
}

// endsWithAbbreviation reports whether the last word of seg is an
// abbreviation or an initial such as the "Q." in "Jane Q. Doe".
func endsWithAbbreviation(seg string, abbrevs map[string]struct{}) bool {
	if !strings.HasSuffix(seg, ".") {
		return false
	}
	fields := strings.Fields(seg)
	last := strings.TrimLeftFunc(fields[len(fields)-1], func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	word := strings.TrimSuffix(last, ".")
	if word == "" {
		return false
	}
	if r, size := utf8.DecodeRuneInString(word); size == len(word) && unicode.IsUpper(r) {
		return true
	}
	_, ok := abbrevs[strings.ToLower(word)]
	return ok
}

// Tokenizer turns a sentence into lowercase word tokens.
type Tokenizer struct {
	// Stem reduces each token to its Snowball stem when true.
	Stem bool

	// Language is the Snowball stemmer language. Empty means "english".
	Language string
}

// Tokens returns the word tokens of sentence.
// Only tokens containing a letter or digit are kept; punctuation and
// whitespace segments are dropped.
func (t Tokenizer) Tokens(sentence string) ([]string, error) {
	lang := t.Language
	if lang == "" {
		lang = "english"
	}

	var tokens []string
	iter := words.FromString(strings.ToLower(sentence))
	for iter.Next() {
		tok := iter.Value()
		if !isWord(tok) {
			continue
		}
		if t.Stem {
			stemmed, err := snowball.Stem(tok, lang, true)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrTokenization, err)
			}
			if stemmed == "" {
				continue
			}
			tok = stemmed
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func isWord(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
