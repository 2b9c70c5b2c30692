// Package paint compiles aggregated match results into the filter,
// color, opacity and label expressions handed to the map rendering
// engine.
//
// The compiler splits matched names into popularity buckets: names in
// the curated major-popular set are constrained to arterial highway
// classes, so a popular arterial name does not light up an unrelated
// minor street that happens to share it. Residential-popular and
// other names pass unconstrained. Regional exemption rules remove
// cross-jurisdiction refs from the broad bucket unless one of their
// tokens was explicitly requested.
//
// Colors are derived from a stable hash of the token, so a token
// keeps its hue across sessions and cities; per-city overrides and a
// default fallback come from configuration.
package paint
