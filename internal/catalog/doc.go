// Package catalog defines the raw road catalog format and the
// searchable index built from it.
//
// A catalog is a static per-city JSON resource: the distinct road
// names and route refs harvested from geographic source data, plus
// optional alias groups that map a token to catalog values it would
// not otherwise match.
//
// The index is built once per catalog load and is read-only
// afterwards. A city switch builds a fresh index; downstream caches
// key off the index instance, so the old cache simply becomes
// unreachable together with the old index.
package catalog
