package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder strips combining diacritical marks: NFD decomposition, drop
// Mn runes, recompose. Shared and immutable, safe for concurrent use.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize trims surrounding whitespace and lowercases.
// This is the canonical form used for de-duplication and exact lookups.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Fold removes combining diacritics so that "Taché" and "Tache"
// compare equal. Input that fails to transform (malformed UTF-8) is
// returned unchanged - matching degrades, it never errors.
func Fold(value string) string {
	folded, _, err := transform.String(folder, value)
	if err != nil {
		return value
	}
	return folded
}

// minPartLen is the shortest fragment kept by SplitParts unless the
// fragment is purely numeric. Single-letter directional markers ("N",
// "O") are dropped; route numbers ("5", "40") are kept.
const minPartLen = 2

// SplitParts splits a token into its alphanumeric parts.
//
// The split is on any run of non-alphanumeric runes. Fragments shorter
// than two runes are dropped unless purely numeric. If filtering would
// empty the result for a non-empty token, the unfiltered split is
// returned instead - a non-empty token never yields empty parts.
func SplitParts(token string) []string {
	raw := strings.FieldsFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(raw) == 0 {
		return nil
	}

	kept := make([]string, 0, len(raw))
	for _, part := range raw {
		if len([]rune(part)) >= minPartLen || IsNumeric(part) {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return raw
	}
	return kept
}

// FoldedParts returns the folded alphanumeric parts of a token:
// SplitParts(Fold(Normalize(token))). This is the input form for every
// structural match rule in the engine.
func FoldedParts(token string) []string {
	return SplitParts(Fold(Normalize(token)))
}

// IsNumeric reports whether s is non-empty and entirely decimal digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
