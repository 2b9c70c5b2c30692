// Package match resolves user tokens against a catalog index.
//
// A token is the unit of user intent: a street name, a colloquial
// abbreviation, or a numeric route ref. The matcher computes, per
// token, the full set of catalog name and ref values the token should
// highlight, plus a single display label chosen with deterministic
// tie-breaks. Results are cached per (index, token); a new catalog
// load constructs a new matcher, so the old cache is simply
// unreachable.
//
// A token's match sets are a function purely of the index, the token
// and the popularity/alias tables - never of other active tokens - so
// aggregation over a token list is associative and order-independent.
package match
