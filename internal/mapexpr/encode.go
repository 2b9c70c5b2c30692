package mapexpr

import (
	"encoding/json"
	"fmt"
)

// Encode converts an expression tree to the plain JSON-marshalable
// array form the rendering engine consumes.
func Encode(e Expr) (any, error) {
	switch expr := e.(type) {
	case Literal:
		return encodeLiteral(expr.Value)
	case Get:
		return []any{"get", expr.Field}, nil
	case Eq:
		left, err := Encode(expr.Left)
		if err != nil {
			return nil, err
		}
		right, err := Encode(expr.Right)
		if err != nil {
			return nil, err
		}
		return []any{"==", left, right}, nil
	case In:
		needle, err := Encode(expr.Needle)
		if err != nil {
			return nil, err
		}
		return []any{"in", needle, []any{"literal", stringList(expr.Values)}}, nil
	case Any:
		return encodeVariadic("any", expr.Exprs)
	case All:
		return encodeVariadic("all", expr.Exprs)
	case Not:
		inner, err := Encode(expr.Expr)
		if err != nil {
			return nil, err
		}
		return []any{"!", inner}, nil
	case Match:
		return encodeMatch(expr)
	case Coalesce:
		return encodeVariadic("coalesce", expr.Exprs)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

// MarshalJSON serializes an expression tree to its JSON array syntax.
func MarshalJSON(e Expr) ([]byte, error) {
	encoded, err := Encode(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(encoded)
}

func encodeLiteral(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil literal value")
	case string, bool, float64, int:
		return val, nil
	case []string:
		return []any{"literal", stringList(val)}, nil
	default:
		return nil, fmt.Errorf("unsupported literal type: %T", v)
	}
}

func encodeVariadic(op string, exprs []Expr) (any, error) {
	out := make([]any, 0, len(exprs)+1)
	out = append(out, op)
	for _, e := range exprs {
		encoded, err := Encode(e)
		if err != nil {
			return nil, fmt.Errorf("%s operand: %w", op, err)
		}
		out = append(out, encoded)
	}
	return out, nil
}

func encodeMatch(m Match) (any, error) {
	input, err := Encode(m.Input)
	if err != nil {
		return nil, fmt.Errorf("match input: %w", err)
	}
	out := []any{"match", input}
	for _, branch := range m.Branches {
		if len(branch.Values) == 0 {
			return nil, fmt.Errorf("match branch with no values")
		}
		// A single value encodes bare; multiple encode as a list.
		if len(branch.Values) == 1 {
			out = append(out, branch.Values[0])
		} else {
			out = append(out, stringList(branch.Values))
		}
		output, err := Encode(branch.Output)
		if err != nil {
			return nil, fmt.Errorf("match branch output: %w", err)
		}
		out = append(out, output)
	}
	def, err := Encode(m.Default)
	if err != nil {
		return nil, fmt.Errorf("match default: %w", err)
	}
	return append(out, def), nil
}

func stringList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
