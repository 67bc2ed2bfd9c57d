// Package category normalizes free-text category names and holds the list of
// known category labels.
package category

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// canonical maps a lookup key (see lookupKey) to its fixed display label.
// Every value v must satisfy canonical[lookupKey(v)] == v so that
// normalizing a canonical label returns it unchanged.
var canonical = map[string]string{
	"work":              "Work",
	"personal projects": "Personal Projects",
	"freelance jobs":    "Freelance Jobs",
}

// Normalize maps free-text category input to its canonical display label.
//
// Known variants are resolved through a fixed table, compared
// case-insensitively and ignoring repeated spaces. Anything else is
// capitalized word by word: the first rune of each space-separated word is
// upper-cased and the rest is left as typed.
//
// Whitespace-only input yields "". Rejecting empty categories is the
// caller's job.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if label, ok := canonical[lookupKey(trimmed)]; ok {
		return label
	}

	words := splitWords(trimmed)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// lookupKey lower-cases s and collapses runs of spaces.
func lookupKey(s string) string {
	return strings.Join(splitWords(strings.ToLower(s)), " ")
}

// splitWords splits on single spaces and drops empty segments.
func splitWords(s string) []string {
	parts := strings.Split(s, " ")
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError && size <= 1 {
		return word
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return word
	}
	return string(upper) + word[size:]
}

// Canonical returns a copy of the canonicalization table keyed by lookup key.
func Canonical() map[string]string {
	out := make(map[string]string, len(canonical))
	for k, v := range canonical {
		out[k] = v
	}
	return out
}
