/*
Package filter implements the profanity predicate injected into the session protocol.

Matching runs an Aho-Corasick automaton over a normalized view of the text: lower-cased,
common leet-speak substitutions undone, and punctuation/whitespace noise removed, so
"B.4.D w0rd" still matches a plain dictionary entry.
*/
package filter

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter answers whether a piece of text contains a forbidden word.
type Filter struct {
	matcher *goahocorasick.Machine
}

// New builds a Filter from the given word list. Words are normalized the same way as
// the searched text, so the dictionary may be written in plain lower-case.
func New(words []string) (*Filter, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		normalized := normalizeRunes([]rune(word))
		if len(normalized) == 0 {
			continue
		}
		patterns = append(patterns, normalized)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}

	return &Filter{matcher: m}, nil
}

// IsProfane reports whether text contains at least one forbidden pattern.
func (f *Filter) IsProfane(text string) bool {
	normalized := normalizeRunes([]rune(text))
	if len(normalized) == 0 {
		return false
	}

	return len(f.matcher.MultiPatternSearch(normalized, true)) > 0
}

// normalizeRunes lower-cases the input, maps leet-speak characters back to letters,
// and drops punctuation, spacing, and symbols.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common leet-speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters that should be ignored during the pattern matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
