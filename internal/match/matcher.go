package match

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/textnorm"
)

// cacheSize bounds the per-index token-match cache. Active token
// lists are small; the bound only guards against pathological input
// (pasting a huge free-text blob into the token box).
const cacheSize = 512

// TokenMatch is the computed match result for one token against one
// index. Immutable once returned; shared by cache hits.
type TokenMatch struct {
	// Token is the normalized token the result was computed for.
	Token string

	// Label is the chosen display label, or "" when nothing in the
	// catalog supplied one (callers fall back to the raw token).
	Label string

	// Names holds every matched normalized name value, always
	// including the token itself so an unresolved token still renders
	// as itself rather than disappearing.
	Names Set

	// Strict holds the single canonical name value chosen for a
	// popular token. Empty for non-popular tokens. When non-empty it
	// supersedes Names for rendering, preventing a popular but
	// ambiguous word from over-matching.
	Strict Set

	// Refs holds every matched normalized ref value, always including
	// the token itself.
	Refs Set
}

// EffectiveNames returns the name set rendering should use: the
// strict canonical set (plus the token itself) when one was chosen,
// otherwise the full structural match set.
func (tm *TokenMatch) EffectiveNames() Set {
	if len(tm.Strict) == 0 {
		return tm.Names
	}
	effective := NewSet(tm.Token)
	effective.AddAll(tm.Strict)
	return effective
}

// Matcher resolves tokens against one catalog index.
//
// The result cache is owned by the matcher and keyed by normalized
// token, so its lifecycle is tied one-to-one to the index it was
// built for. A city switch constructs a new matcher over the new
// index; no explicit eviction is needed.
//
// A nil index is tolerated: every token degrades to matching itself
// literally, per the catalog-absent failure policy.
type Matcher struct {
	index      *catalog.Index
	popularity Popularity
	cache      *lru.Cache[string, *TokenMatch]
}

// NewMatcher creates a matcher over an index (which may be nil) and a
// popularity table.
func NewMatcher(index *catalog.Index, popularity Popularity) *Matcher {
	cache, err := lru.New[string, *TokenMatch](cacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Matcher{index: index, popularity: popularity, cache: cache}
}

// Index returns the index this matcher resolves against (may be nil).
func (m *Matcher) Index() *catalog.Index {
	return m.index
}

// Match computes (or returns the cached) match result for a token.
func (m *Matcher) Match(token string) *TokenMatch {
	normalized := textnorm.Normalize(token)
	if cached, ok := m.cache.Get(normalized); ok {
		return cached
	}
	result := m.compute(normalized)
	m.cache.Add(normalized, result)
	return result
}

func (m *Matcher) compute(token string) *TokenMatch {
	tm := &TokenMatch{
		Token: token,
		Names: NewSet(token),
		Refs:  NewSet(token),
	}
	if token == "" || m.index == nil {
		return tm
	}

	parts := textnorm.FoldedParts(token)
	folded := textnorm.Fold(token)

	alias, hasAlias := m.index.Alias(token)

	// Label resolution priority: alias-declared label, exact catalog
	// name label, exact catalog ref label. A preferred popular match
	// below overrides whatever is chosen here.
	exactLabel := ""
	switch {
	case hasAlias && alias.Label != "":
		exactLabel = alias.Label
	default:
		if label, ok := m.index.NameLabel(token); ok {
			exactLabel = label
		} else if label, ok := m.index.RefLabel(token); ok {
			exactLabel = label
		}
	}
	tm.Label = exactLabel

	strict := false
	if m.popularity.Contains(token) {
		strict = m.preferredPopular(token, parts, tm)
	}

	if !strict {
		m.scanNames(parts, exactLabel, tm)
	}
	m.scanRefs(folded, parts, tm)

	if hasAlias {
		// Alias values are explicit overrides, merged verbatim with
		// no structural check.
		for _, value := range alias.Names {
			tm.Names.Add(value)
		}
		for _, value := range alias.Refs {
			tm.Refs.Add(value)
		}
	}

	return tm
}

// preferredPopular attempts the popular-token short-circuit: choose a
// single canonical entry rather than the full structural match set.
// Returns true when a canonical entry was chosen.
func (m *Matcher) preferredPopular(token string, parts []string, tm *TokenMatch) bool {
	// An exact name entry is definitive.
	if label, ok := m.index.NameLabel(token); ok {
		tm.Strict = NewSet(token)
		tm.Label = label
		return true
	}

	var best *catalog.Entry
	for i := range m.index.NameEntries {
		entry := &m.index.NameEntries[i]
		if !MatchesName(parts, entry.Parts) {
			continue
		}
		if best == nil || preferEntry(parts, entry, best) {
			best = entry
		}
	}
	if best == nil {
		return false
	}

	tm.Strict = NewSet(best.Value)
	tm.Names.Add(best.Value)
	tm.Label = best.Label
	return true
}

// preferEntry reports whether candidate beats incumbent under the
// popular tie-break chain: first-part equality (single-part tokens
// only), exact part count, fewer parts, shorter label, lexicographic.
func preferEntry(tokenParts []string, candidate, incumbent *catalog.Entry) bool {
	if len(tokenParts) == 1 {
		candFirst := candidate.Parts[0] == tokenParts[0]
		incFirst := incumbent.Parts[0] == tokenParts[0]
		if candFirst != incFirst {
			return candFirst
		}
	}

	candExact := len(candidate.Parts) == len(tokenParts)
	incExact := len(incumbent.Parts) == len(tokenParts)
	if candExact != incExact {
		return candExact
	}

	if len(candidate.Parts) != len(incumbent.Parts) {
		return len(candidate.Parts) < len(incumbent.Parts)
	}
	if len(candidate.Label) != len(incumbent.Label) {
		return len(candidate.Label) < len(incumbent.Label)
	}
	return candidate.Label < incumbent.Label
}

// scanNames accumulates every structurally matching name entry,
// tracking the shortest matching label as the display fallback when
// no exact label was already chosen.
func (m *Matcher) scanNames(parts []string, exactLabel string, tm *TokenMatch) {
	shortest := ""
	for i := range m.index.NameEntries {
		entry := &m.index.NameEntries[i]
		if !MatchesName(parts, entry.Parts) {
			continue
		}
		tm.Names.Add(entry.Value)
		if shortest == "" || shorterLabel(entry.Label, shortest) {
			shortest = entry.Label
		}
	}
	if exactLabel == "" && shortest != "" {
		tm.Label = shortest
	}
}

// scanRefs accumulates every matching ref entry with the same
// shortest-label fallback policy as names.
func (m *Matcher) scanRefs(folded string, parts []string, tm *TokenMatch) {
	shortest := ""
	for i := range m.index.RefEntries {
		entry := &m.index.RefEntries[i]
		if !MatchesRef(folded, parts, entry.Parts) {
			continue
		}
		tm.Refs.Add(entry.Value)
		if shortest == "" || shorterLabel(entry.Label, shortest) {
			shortest = entry.Label
		}
	}
	if tm.Label == "" && shortest != "" {
		tm.Label = shortest
	}
}

// shorterLabel orders labels by length then lexicographically, so the
// fallback label choice is deterministic across identical lengths.
func shorterLabel(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
