// Package moderation censors banned words in message content before it is
// persisted or published. Matching runs over a normalized shadow of the
// text (lowercased, noise stripped, leet speak folded) while replacement
// happens on the original runes, so spacing and surrounding text survive.
package moderation

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"

	apperrors "github.com/Auhnip/chat-app-backend/errors"
)

type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
}

// textMapping links each normalized rune back to its index in the original
// string, so a match span can be censored in place.
type textMapping struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton from a normalized copy of
// the banned word list.
func NewModerator(censoredWords []string, censoredChar rune) (Moderator, error) {
	if len(censoredWords) == 0 {
		return Moderator{}, apperrors.ErrEmptyCensoredWords
	}

	patterns := make([][]rune, len(censoredWords))
	for i, word := range censoredWords {
		patterns[i] = normalize([]rune(word), true)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, censoredChar: censoredChar}, nil
}

// Censor replaces every banned span in the input with the censor rune.
// Leet folding is only applied to Latin-script text; folding digits inside
// e.g. Cyrillic or CJK content would corrupt legitimate words.
func (m *Moderator) Censor(original string) string {
	foldLeet := whatlanggo.Detect(original).Script == unicode.Latin
	mapping := mapRunes(original, foldLeet)
	if len(mapping.normalized) == 0 {
		return original
	}

	spans := m.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return original
	}

	origRunes := []rune(original)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(mapping.origIdx) {
			continue
		}
		for i := mapping.origIdx[start]; i <= mapping.origIdx[end-1]; i++ {
			origRunes[i] = m.censoredChar
		}
	}
	return string(origRunes)
}

func mapRunes(input string, foldLeet bool) textMapping {
	origRunes := []rune(input)
	mapping := textMapping{
		normalized: make([]rune, 0, len(origRunes)),
		origIdx:    make([]int, 0, len(origRunes)),
	}

	for i, r := range origRunes {
		clean := r
		if foldLeet {
			clean = foldLeetRune(r)
		}
		if isNoise(clean) {
			continue
		}
		mapping.normalized = append(mapping.normalized, unicode.ToLower(clean))
		mapping.origIdx = append(mapping.origIdx, i)
	}
	return mapping
}

func normalize(input []rune, foldLeet bool) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := r
		if foldLeet {
			clean = foldLeetRune(r)
		}
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// foldLeetRune maps common leet speak substitutions back to their alphabet
// counterparts.
func foldLeetRune(r rune) rune {
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

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
