// Package mapexpr defines the declarative expression tree handed to
// the external map rendering engine.
//
// The rendering engine consumes filter, paint and layout values as
// small recursive expressions (operator + operands). This package
// models them as a sealed-interface sum type - literal, field
// reference, comparison, boolean combinators, membership test, match
// dispatch - and encodes them to the JSON array syntax map renderers
// expect (["any", ["in", ["get", "name"], ...], ...]).
//
// A reference evaluator is included so compiled predicates can be
// executed directly against feature properties, both in tests and in
// the terminal quiz front-end.
package mapexpr
