package match

import "github.com/roach88/roadquiz/internal/textnorm"

// Class buckets a token by its popularity classification. The
// predicate compiler constrains major-popular names to arterial road
// classes; residential-popular and other names are unconstrained.
type Class int

const (
	// ClassOther is any token outside the curated popular sets.
	ClassOther Class = iota
	// ClassMajor is a popular name carried by arterial roads.
	ClassMajor
	// ClassResidential is a popular name carried by minor streets.
	ClassResidential
)

// Popularity is the curated set of popular (and therefore ambiguous)
// road names for a city. Empirically tuned per city and supplied as
// configuration data, not algorithm constants.
type Popularity struct {
	major       map[string]bool
	residential map[string]bool
}

// NewPopularity builds a Popularity table. Entries are normalized, so
// config files may use any casing.
func NewPopularity(major, residential []string) Popularity {
	p := Popularity{
		major:       make(map[string]bool, len(major)),
		residential: make(map[string]bool, len(residential)),
	}
	for _, name := range major {
		if n := textnorm.Normalize(name); n != "" {
			p.major[n] = true
		}
	}
	for _, name := range residential {
		if n := textnorm.Normalize(name); n != "" {
			p.residential[n] = true
		}
	}
	return p
}

// Contains reports whether the token is in either popular set.
func (p Popularity) Contains(token string) bool {
	return p.major[token] || p.residential[token]
}

// Classify returns the popularity bucket for a token. Major wins when
// a name appears in both sets.
func (p Popularity) Classify(token string) Class {
	switch {
	case p.major[token]:
		return ClassMajor
	case p.residential[token]:
		return ClassResidential
	default:
		return ClassOther
	}
}
