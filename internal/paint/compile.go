package paint

import (
	"sort"

	"github.com/roach88/roadquiz/internal/catalog"
	"github.com/roach88/roadquiz/internal/mapexpr"
	"github.com/roach88/roadquiz/internal/match"
	"github.com/roach88/roadquiz/internal/textnorm"
)

// Feature property fields exposed by the rendering engine's road
// layer, matching the properties kept by the catalog build pipeline.
const (
	FieldName    = "name"
	FieldAltName = "name:en"
	FieldRef     = "ref"
	FieldHighway = "highway"
)

// DefaultArterialClasses are the highway classes major-popular names
// are restricted to when no per-city override is configured.
var DefaultArterialClasses = []string{
	"motorway", "motorway_link",
	"trunk", "trunk_link",
	"primary", "primary_link",
	"secondary", "secondary_link",
	"tertiary", "tertiary_link",
}

// ExemptRule excludes a ref from the broad region bucket unless one
// of its tokens was explicitly requested. Empirically tuned per city;
// supplied as configuration data.
type ExemptRule struct {
	Ref    string   `json:"ref"`
	Unless []string `json:"unless,omitempty"`
}

// Options carries the per-city tuning knobs consumed at compile time.
type Options struct {
	// ArterialClasses overrides DefaultArterialClasses when non-empty.
	ArterialClasses []string
	// Colors maps tokens to manual color overrides.
	Colors map[string]string
	// DefaultColor is produced for unmatched features in color
	// expressions; falls back to the package default when empty.
	DefaultColor string
	// Exemptions are the regional ref exclusion rules.
	Exemptions []ExemptRule
}

// Output is one redraw's worth of values for the rendering engine's
// filter/paint/layout setters.
type Output struct {
	Filter  mapexpr.Expr
	Color   mapexpr.Expr
	Opacity mapexpr.Expr
	Label   mapexpr.Expr
}

// Compiler turns an aggregated match index into rendering
// expressions. Stateless apart from its configuration; safe to reuse
// across redraws.
type Compiler struct {
	Popularity match.Popularity
	Options    Options
}

// Compile produces the full expression set for the active token list.
// Opacity is the constant 1; quiz mode swaps it via QuizOpacity.
//
// The index maps matched normalized values back to the original-cased
// labels the map data actually carries; it may be nil, in which case
// the normalized values themselves are emitted.
func (c *Compiler) Compile(mi *match.MatchIndex, idx *catalog.Index) Output {
	return Output{
		Filter:  c.compileFilter(mi, idx),
		Color:   c.compileColor(mi, idx),
		Opacity: mapexpr.Num(1),
		Label:   c.compileLabel(mi, idx),
	}
}

func (c *Compiler) compileFilter(mi *match.MatchIndex, idx *catalog.Index) mapexpr.Expr {
	var openNames, majorNames []string
	seen := map[string]bool{}
	for _, token := range mi.Tokens {
		labels := nameLabels(mi.ByToken[token].EffectiveNames(), idx, seen)
		if c.Popularity.Classify(token) == match.ClassMajor {
			majorNames = append(majorNames, labels...)
		} else {
			openNames = append(openNames, labels...)
		}
	}
	sort.Strings(openNames)
	sort.Strings(majorNames)
	refs := refLabels(mi.Refs, idx)

	var arms []mapexpr.Expr
	if len(openNames) > 0 {
		arms = append(arms,
			mapexpr.In{Needle: mapexpr.Get{Field: FieldName}, Values: openNames},
			mapexpr.In{Needle: mapexpr.Get{Field: FieldAltName}, Values: openNames},
		)
	}
	if len(majorNames) > 0 {
		arms = append(arms, mapexpr.All{Exprs: []mapexpr.Expr{
			mapexpr.Any{Exprs: []mapexpr.Expr{
				mapexpr.In{Needle: mapexpr.Get{Field: FieldName}, Values: majorNames},
				mapexpr.In{Needle: mapexpr.Get{Field: FieldAltName}, Values: majorNames},
			}},
			mapexpr.In{Needle: mapexpr.Get{Field: FieldHighway}, Values: c.arterialClasses()},
		}})
	}
	if len(refs) > 0 {
		arms = append(arms, mapexpr.In{Needle: mapexpr.Get{Field: FieldRef}, Values: refs})
	}

	filter := mapexpr.Expr(mapexpr.Any{Exprs: arms})

	if excluded := c.excludedRefs(mi, idx); len(excluded) > 0 {
		filter = mapexpr.All{Exprs: []mapexpr.Expr{
			filter,
			mapexpr.Not{Expr: mapexpr.In{Needle: mapexpr.Get{Field: FieldRef}, Values: excluded}},
		}}
	}
	return filter
}

// excludedRefs applies the regional exemption rules: a rule's ref is
// excluded unless one of its tokens is in the active list.
func (c *Compiler) excludedRefs(mi *match.MatchIndex, idx *catalog.Index) []string {
	active := map[string]bool{}
	for _, token := range mi.Tokens {
		active[token] = true
	}

	var excluded []string
	for _, rule := range c.Options.Exemptions {
		ref := textnorm.Normalize(rule.Ref)
		if ref == "" {
			continue
		}
		requested := false
		for _, unless := range rule.Unless {
			if active[textnorm.Normalize(unless)] {
				requested = true
				break
			}
		}
		if requested {
			continue
		}
		if idx != nil {
			if label, ok := idx.RefLabel(ref); ok {
				excluded = append(excluded, label)
				continue
			}
		}
		excluded = append(excluded, ref)
	}
	sort.Strings(excluded)
	return excluded
}

func (c *Compiler) compileColor(mi *match.MatchIndex, idx *catalog.Index) mapexpr.Expr {
	refMatch := mapexpr.Match{
		Input:   mapexpr.Get{Field: FieldRef},
		Default: mapexpr.Str(c.defaultColor()),
	}
	usedRefs := map[string]bool{}
	for _, token := range mi.Tokens {
		values := branchValues(mi.ByToken[token].Refs, idx, refLabel, usedRefs)
		if len(values) == 0 {
			continue
		}
		refMatch.Branches = append(refMatch.Branches, mapexpr.Branch{
			Values: values,
			Output: mapexpr.Str(c.colorFor(token)),
		})
	}

	nameMatch := mapexpr.Match{
		Input:   mapexpr.Get{Field: FieldName},
		Default: refMatch,
	}
	usedNames := map[string]bool{}
	for _, token := range mi.Tokens {
		values := branchValues(mi.ByToken[token].EffectiveNames(), idx, nameLabel, usedNames)
		if len(values) == 0 {
			continue
		}
		nameMatch.Branches = append(nameMatch.Branches, mapexpr.Branch{
			Values: values,
			Output: mapexpr.Str(c.colorFor(token)),
		})
	}
	return nameMatch
}

func (c *Compiler) compileLabel(mi *match.MatchIndex, idx *catalog.Index) mapexpr.Expr {
	refMatch := mapexpr.Match{
		Input: mapexpr.Get{Field: FieldRef},
		Default: mapexpr.Coalesce{Exprs: []mapexpr.Expr{
			mapexpr.Get{Field: FieldName},
			mapexpr.Get{Field: FieldRef},
		}},
	}
	usedRefs := map[string]bool{}
	for _, token := range mi.Tokens {
		values := branchValues(mi.ByToken[token].Refs, idx, refLabel, usedRefs)
		if len(values) == 0 {
			continue
		}
		refMatch.Branches = append(refMatch.Branches, mapexpr.Branch{
			Values: values,
			Output: mapexpr.Str(mi.Label(token)),
		})
	}

	nameMatch := mapexpr.Match{
		Input:   mapexpr.Get{Field: FieldName},
		Default: refMatch,
	}
	usedNames := map[string]bool{}
	for _, token := range mi.Tokens {
		values := branchValues(mi.ByToken[token].EffectiveNames(), idx, nameLabel, usedNames)
		if len(values) == 0 {
			continue
		}
		nameMatch.Branches = append(nameMatch.Branches, mapexpr.Branch{
			Values: values,
			Output: mapexpr.Str(mi.Label(token)),
		})
	}
	return nameMatch
}

// QuizOpacity builds the 0/1 reveal expression for quiz mode: only
// features belonging to already-found tokens are visible.
func (c *Compiler) QuizOpacity(mi *match.MatchIndex, idx *catalog.Index, found []string) mapexpr.Expr {
	foundNames := match.NewSet()
	foundRefs := match.NewSet()
	for _, token := range found {
		tm, ok := mi.ByToken[textnorm.Normalize(token)]
		if !ok {
			continue
		}
		foundNames.AddAll(tm.EffectiveNames())
		foundRefs.AddAll(tm.Refs)
	}

	names := nameLabels(foundNames, idx, map[string]bool{})
	sort.Strings(names)
	refs := refLabels(foundRefs, idx)

	refMatch := mapexpr.Match{
		Input:   mapexpr.Get{Field: FieldRef},
		Default: mapexpr.Num(0),
	}
	if len(refs) > 0 {
		refMatch.Branches = []mapexpr.Branch{{Values: refs, Output: mapexpr.Num(1)}}
	}
	nameMatch := mapexpr.Match{
		Input:   mapexpr.Get{Field: FieldName},
		Default: refMatch,
	}
	if len(names) > 0 {
		nameMatch.Branches = []mapexpr.Branch{{Values: names, Output: mapexpr.Num(1)}}
	}
	return nameMatch
}

func (c *Compiler) arterialClasses() []string {
	if len(c.Options.ArterialClasses) > 0 {
		return c.Options.ArterialClasses
	}
	return DefaultArterialClasses
}

func (c *Compiler) colorFor(token string) string {
	if color, ok := c.Options.Colors[token]; ok && color != "" {
		return color
	}
	return TokenColor(token)
}

func (c *Compiler) defaultColor() string {
	if c.Options.DefaultColor != "" {
		return c.Options.DefaultColor
	}
	return DefaultColor
}

func nameLabel(idx *catalog.Index, value string) (string, bool) {
	return idx.NameLabel(value)
}

func refLabel(idx *catalog.Index, value string) (string, bool) {
	return idx.RefLabel(value)
}

// nameLabels maps a set of normalized name values to display labels,
// skipping values already claimed by an earlier bucket.
func nameLabels(values match.Set, idx *catalog.Index, seen map[string]bool) []string {
	return branchValues(values, idx, nameLabel, seen)
}

func refLabels(values match.Set, idx *catalog.Index) []string {
	labels := branchValues(values, idx, refLabel, map[string]bool{})
	sort.Strings(labels)
	return labels
}

// branchValues resolves normalized values to display labels in sorted
// value order, de-duplicating across calls via seen. A value with no
// catalog label (the literal-token fallback) is emitted as-is.
func branchValues(values match.Set, idx *catalog.Index, lookup func(*catalog.Index, string) (string, bool), seen map[string]bool) []string {
	var out []string
	for _, value := range values.Values() {
		label := value
		if idx != nil {
			if l, ok := lookup(idx, value); ok {
				label = l
			}
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
