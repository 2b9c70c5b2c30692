package catalog

import (
	"strings"

	"github.com/roach88/roadquiz/internal/textnorm"
)

// Entry is one distinct road name or ref value from the catalog.
//
// Label keeps the original casing and diacritics for display. Value is
// the normalized form used for exact lookups and set membership. Parts
// are the folded alphanumeric pieces used by the structural match
// rules.
type Entry struct {
	Label string
	Value string
	Parts []string
}

// Alias is a merged alias group: the union of all declared name and
// ref values for one token, with the first non-empty label winning.
type Alias struct {
	Token string
	Label string
	Names []string
	Refs  []string
}

// Index is the searchable form of a catalog. Built once per catalog
// load by BuildIndex and read-only afterwards.
type Index struct {
	// NameEntries and RefEntries are in first-seen catalog order.
	NameEntries []Entry
	RefEntries  []Entry

	nameLabels map[string]string
	refLabels  map[string]string
	aliases    map[string]*Alias
	aliasValue map[string]string
}

// BuildIndex constructs an Index from a raw catalog.
//
// For names and refs independently: trim, normalize, drop empties and
// de-duplicate by normalized value. The first occurrence of a
// normalized value supplies its display label; later duplicates are
// ignored. This makes the build idempotent, with label choice
// deterministic in first-seen order.
//
// A nil catalog yields an empty (but usable) index.
func BuildIndex(c *Catalog) *Index {
	idx := &Index{
		nameLabels: make(map[string]string),
		refLabels:  make(map[string]string),
		aliases:    make(map[string]*Alias),
		aliasValue: make(map[string]string),
	}
	if c == nil {
		return idx
	}

	idx.NameEntries = buildEntries(c.Names, idx.nameLabels)
	idx.RefEntries = buildEntries(c.Refs, idx.refLabels)

	for _, group := range c.Aliases {
		idx.mergeAlias(group)
	}

	return idx
}

func buildEntries(values []string, labels map[string]string) []Entry {
	entries := make([]Entry, 0, len(values))
	for _, raw := range values {
		normalized := textnorm.Normalize(raw)
		if normalized == "" {
			continue
		}
		if _, seen := labels[normalized]; seen {
			continue
		}
		label := trimLabel(raw)
		labels[normalized] = label
		entries = append(entries, Entry{
			Label: label,
			Value: normalized,
			Parts: textnorm.SplitParts(textnorm.Fold(normalized)),
		})
	}
	return entries
}

// mergeAlias folds one alias group into the table. Groups are keyed by
// normalized token; name/ref sets are unioned across declarations.
func (idx *Index) mergeAlias(group AliasGroup) {
	token := textnorm.Normalize(group.Token)
	if token == "" {
		return
	}
	names := normalizeValues(group.Names)
	refs := normalizeValues(group.Refs)
	if len(names) == 0 && len(refs) == 0 {
		return
	}

	alias := idx.aliases[token]
	if alias == nil {
		alias = &Alias{Token: token}
		idx.aliases[token] = alias
	}
	if alias.Label == "" {
		alias.Label = group.Label
	}
	alias.Names = appendMissing(alias.Names, names)
	alias.Refs = appendMissing(alias.Refs, refs)

	for _, value := range names {
		if _, taken := idx.aliasValue[value]; !taken {
			idx.aliasValue[value] = token
		}
	}
	for _, value := range refs {
		if _, taken := idx.aliasValue[value]; !taken {
			idx.aliasValue[value] = token
		}
	}
}

// NameLabel returns the display label for a normalized name value.
func (idx *Index) NameLabel(value string) (string, bool) {
	label, ok := idx.nameLabels[value]
	return label, ok
}

// RefLabel returns the display label for a normalized ref value.
func (idx *Index) RefLabel(value string) (string, bool) {
	label, ok := idx.refLabels[value]
	return label, ok
}

// Alias returns the merged alias group for a token, if declared.
func (idx *Index) Alias(token string) (*Alias, bool) {
	alias, ok := idx.aliases[token]
	return alias, ok
}

// TokenForAliasValue maps a catalog value back to the alias token that
// declared it. Lets free-text user input snap onto a canonical token.
func (idx *Index) TokenForAliasValue(value string) (string, bool) {
	token, ok := idx.aliasValue[textnorm.Normalize(value)]
	return token, ok
}

func normalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := textnorm.Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func appendMissing(dst, values []string) []string {
	for _, v := range values {
		found := false
		for _, have := range dst {
			if have == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// trimLabel trims whitespace but preserves casing and diacritics.
func trimLabel(raw string) string {
	return strings.TrimSpace(raw)
}
