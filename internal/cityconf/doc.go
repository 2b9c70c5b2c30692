// Package cityconf loads per-city tuning data: the curated popular
// road-name sets, label and color overrides, arterial class overrides
// and regional ref exemptions that parameterize matching and painting
// for one city. Tuning lives in CUE files, one directory per city; a
// small YAML registry maps city identifiers to their catalog and
// config locations.
package cityconf
