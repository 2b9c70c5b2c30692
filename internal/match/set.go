package match

import "sort"

// Set is a membership set over normalized catalog values.
type Set map[string]bool

// NewSet creates a set containing the given values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}

// Add inserts a value.
func (s Set) Add(value string) {
	s[value] = true
}

// Has reports membership.
func (s Set) Has(value string) bool {
	return s[value]
}

// AddAll inserts every member of other.
func (s Set) AddAll(other Set) {
	for v := range other {
		s[v] = true
	}
}

// Values returns the members in sorted order. Sorting keeps every
// derived artifact (compiled expressions, CLI output, golden files)
// deterministic regardless of map iteration order.
func (s Set) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
