package match

import (
	"github.com/roach88/roadquiz/internal/textnorm"
)

// minWordLen is the shortest token part allowed to fuzzy-match.
// Shorter parts (and numeric parts) require exact equality, so "a"
// never plural-matches "ave" and "5" never matches "50".
const minWordLen = 3

// directionalSuffixes are entry parts tolerated beyond a multi-part
// token's length: "main street" matches "Main Street North" but not
// "Main Street Extension". English and French forms plus single-letter
// abbreviations.
var directionalSuffixes = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"nord": true, "sud": true, "est": true, "ouest": true,
	"n": true, "s": true, "e": true, "w": true, "o": true,
}

// wordMatch reports whether an entry part satisfies a token part.
//
// Numeric parts and parts shorter than minWordLen require exact
// equality. Longer parts also accept the entry part being the token
// part with a trailing "s" (simple plural tolerance).
func wordMatch(tokenPart, entryPart string) bool {
	if tokenPart == entryPart {
		return true
	}
	if textnorm.IsNumeric(tokenPart) || textnorm.IsNumeric(entryPart) {
		return false
	}
	if len([]rune(tokenPart)) < minWordLen {
		return false
	}
	return entryPart == tokenPart+"s"
}

// MatchesName reports whether a name entry's parts structurally match
// the token's folded parts.
//
// A single-part token matches when any entry part word-matches it. A
// multi-part token requires an ordered prefix match: the entry must
// have at least as many parts, each token part must word-match the
// entry part in the same position, and every surplus entry part must
// be a recognized directional suffix.
func MatchesName(tokenParts, entryParts []string) bool {
	if len(tokenParts) == 0 || len(entryParts) == 0 {
		return false
	}
	if len(tokenParts) == 1 {
		for _, part := range entryParts {
			if wordMatch(tokenParts[0], part) {
				return true
			}
		}
		return false
	}
	if len(entryParts) < len(tokenParts) {
		return false
	}
	for i, tokenPart := range tokenParts {
		if !wordMatch(tokenPart, entryParts[i]) {
			return false
		}
	}
	for _, surplus := range entryParts[len(tokenParts):] {
		if !directionalSuffixes[surplus] {
			return false
		}
	}
	return true
}

// MatchesRef reports whether a ref entry's parts match the token.
//
// Refs are short alphanumeric codes, so position does not matter the
// way it does for names. A single-part token matches when the literal
// folded token appears among the entry parts; a multi-part token
// requires every token part to appear somewhere among the entry
// parts.
func MatchesRef(foldedToken string, tokenParts, entryParts []string) bool {
	if len(entryParts) == 0 {
		return false
	}
	if len(tokenParts) <= 1 {
		for _, part := range entryParts {
			if part == foldedToken {
				return true
			}
		}
		return false
	}
	for _, tokenPart := range tokenParts {
		found := false
		for _, part := range entryParts {
			if part == tokenPart {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
