package form

import (
	"strings"
)

// MaxDescriptionWords bounds the description length in words.
const MaxDescriptionWords = 100

// NormalizeAmount keeps only digits and decimal points, at most one decimal
// point and at most two fractional digits. "1.234" becomes "1.23" and
// "1.2.3" becomes "1.2".
func NormalizeAmount(raw string) string {
	s := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		s = parts[0] + "." + parts[1]
	}
	if len(parts) > 1 && len(parts[1]) > 2 {
		s = parts[0] + "." + parts[1][:2]
	}
	return s
}

// NormalizeDescription truncates the text to its first MaxDescriptionWords
// words, joined by single spaces. Shorter text is returned as typed so that
// a trailing space between two words survives a keystroke.
func NormalizeDescription(raw string) string {
	words := strings.Fields(raw)
	if len(words) > MaxDescriptionWords {
		return strings.Join(words[:MaxDescriptionWords], " ")
	}
	return raw
}

// WordCount counts whitespace separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Normalize applies the live normalization for field. Dates are left alone.
func Normalize(field FieldName, raw string) string {
	switch field {
	case FieldAmount:
		return NormalizeAmount(raw)
	case FieldDescription:
		return NormalizeDescription(raw)
	default:
		return raw
	}
}
