package mapexpr

// Expr is a node in the expression tree handed to the rendering
// engine.
//
// This is a sealed interface - only types in this package implement
// it. The marker method pattern prevents external implementations and
// enables exhaustive type switches in the encoder and evaluator.
type Expr interface {
	exprNode()
}

// Literal is a constant value: string, float64, bool, or a slice of
// those.
type Literal struct {
	Value any
}

func (Literal) exprNode() {}

// Get reads a string property off the feature being evaluated.
// Encodes as ["get", field]. A missing property reads as "".
type Get struct {
	Field string
}

func (Get) exprNode() {}

// Eq compares two sub-expressions for equality. Encodes as ["==", a, b].
type Eq struct {
	Left  Expr
	Right Expr
}

func (Eq) exprNode() {}

// In tests membership of a needle expression in a literal string set.
// Encodes as ["in", needle, ["literal", [...]]].
type In struct {
	Needle Expr
	Values []string
}

func (In) exprNode() {}

// Any is boolean OR over its operands; false when empty.
// Encodes as ["any", ...].
type Any struct {
	Exprs []Expr
}

func (Any) exprNode() {}

// All is boolean AND over its operands; true when empty (vacuous
// truth). Encodes as ["all", ...].
type All struct {
	Exprs []Expr
}

func (All) exprNode() {}

// Not negates its operand. Encodes as ["!", expr].
type Not struct {
	Expr Expr
}

func (Not) exprNode() {}

// Branch is one arm of a Match: when the input equals any of Values,
// the branch's Output is produced.
type Branch struct {
	Values []string
	Output Expr
}

// Match dispatches on a string input expression. Branches are tried
// in order; Default is produced when none applies. Encodes as
// ["match", input, values..., output, ..., default].
type Match struct {
	Input    Expr
	Branches []Branch
	Default  Expr
}

func (Match) exprNode() {}

// Coalesce produces the first operand that evaluates to a non-empty
// value. Encodes as ["coalesce", ...].
type Coalesce struct {
	Exprs []Expr
}

func (Coalesce) exprNode() {}

// Bool is shorthand for a boolean literal.
func Bool(v bool) Expr { return Literal{Value: v} }

// Str is shorthand for a string literal.
func Str(v string) Expr { return Literal{Value: v} }

// Num is shorthand for a numeric literal.
func Num(v float64) Expr { return Literal{Value: v} }
