// Package textnorm normalizes raw road names for structural matching.
//
// Geographic source data is noisy: accented vs. unaccented spellings,
// mixed casing, directional suffixes, punctuation-joined composites.
// All structural matching in the engine operates on "folded parts" -
// the alphanumeric word pieces of a string after trimming, lowercasing
// and diacritic folding. Display labels keep the original casing and
// diacritics; only comparisons go through this package.
package textnorm
