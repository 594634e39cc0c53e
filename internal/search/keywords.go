package search

import (
	"strings"
	"unicode"
)

// minKeywordLength filters out stopword-like noise ("a", "to", "is", "of").
const minKeywordLength = 3

// ExtractKeywords converts arbitrary text into a set of normalized lexical
// tokens: the text is lowercased, every character outside [a-z0-9] and
// whitespace is replaced with a space (so punctuation like the hyphen in
// "real-time" splits the word), and tokens shorter than three characters
// are discarded.
//
// Any input, including the empty string, produces a (possibly empty) set.
func ExtractKeywords(text string) map[string]struct{} {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	keywords := make(map[string]struct{})
	for _, token := range strings.Fields(b.String()) {
		if len(token) >= minKeywordLength {
			keywords[token] = struct{}{}
		}
	}
	return keywords
}
