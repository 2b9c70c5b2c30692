package match

import "github.com/roach88/roadquiz/internal/textnorm"

// MatchIndex aggregates per-token match results over an active token
// list: the unified name/ref sets for predicate compilation, plus the
// per-token subsets and labels needed to color and re-filter per
// token rather than as one blob.
//
// Aggregation is a pure function of the matcher and the token list;
// because each token's result is independent of the others, the
// outcome does not depend on the order tokens were added.
type MatchIndex struct {
	// Tokens is the active list, normalized and de-duplicated in
	// first-seen order.
	Tokens []string

	// Names and Refs are the union of every token's effective sets.
	Names Set
	Refs  Set

	// ByToken holds each token's full match result.
	ByToken map[string]*TokenMatch

	// Labels maps each token to its display label, resolved through:
	// explicit per-city override, matcher-chosen label, raw token.
	Labels map[string]string
}

// Aggregate resolves every token in the list and combines the
// results. labelOverrides carries per-city display overrides and may
// be nil.
func Aggregate(m *Matcher, tokens []string, labelOverrides map[string]string) *MatchIndex {
	agg := &MatchIndex{
		Names:   NewSet(),
		Refs:    NewSet(),
		ByToken: make(map[string]*TokenMatch, len(tokens)),
		Labels:  make(map[string]string, len(tokens)),
	}

	for _, raw := range tokens {
		token := textnorm.Normalize(raw)
		if token == "" {
			continue
		}
		if _, seen := agg.ByToken[token]; seen {
			continue
		}

		tm := m.Match(token)
		agg.Tokens = append(agg.Tokens, token)
		agg.ByToken[token] = tm
		agg.Names.AddAll(tm.EffectiveNames())
		agg.Refs.AddAll(tm.Refs)

		switch {
		case labelOverrides[token] != "":
			agg.Labels[token] = labelOverrides[token]
		case tm.Label != "":
			agg.Labels[token] = tm.Label
		default:
			agg.Labels[token] = token
		}
	}

	return agg
}

// Label returns the resolved display label for a token, falling back
// to the token itself for tokens outside the active list.
func (mi *MatchIndex) Label(token string) string {
	if label, ok := mi.Labels[token]; ok {
		return label
	}
	return token
}
