package mapexpr

import (
	"fmt"
)

// Properties supplies feature property values to the evaluator.
type Properties map[string]string

// EvalBool evaluates an expression against feature properties and
// coerces the result to a boolean. Used to execute compiled membership
// predicates outside the rendering engine.
func EvalBool(e Expr, props Properties) (bool, error) {
	v, err := Eval(e, props)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expression evaluated to %T, want bool", v)
	}
	return b, nil
}

// Eval evaluates an expression against feature properties.
//
// This is a reference implementation of the rendering engine's
// expression semantics, sufficient for the operators this package
// defines. It exists so tests and the terminal quiz can execute
// compiled predicates directly.
func Eval(e Expr, props Properties) (any, error) {
	switch expr := e.(type) {
	case Literal:
		return expr.Value, nil
	case Get:
		return props[expr.Field], nil
	case Eq:
		left, err := Eval(expr.Left, props)
		if err != nil {
			return nil, err
		}
		right, err := Eval(expr.Right, props)
		if err != nil {
			return nil, err
		}
		return left == right, nil
	case In:
		needle, err := Eval(expr.Needle, props)
		if err != nil {
			return nil, err
		}
		s, ok := needle.(string)
		if !ok {
			return nil, fmt.Errorf("in: needle evaluated to %T, want string", needle)
		}
		for _, v := range expr.Values {
			if v == s {
				return true, nil
			}
		}
		return false, nil
	case Any:
		for _, operand := range expr.Exprs {
			ok, err := EvalBool(operand, props)
			if err != nil {
				return nil, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case All:
		for _, operand := range expr.Exprs {
			ok, err := EvalBool(operand, props)
			if err != nil {
				return nil, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case Not:
		ok, err := EvalBool(expr.Expr, props)
		if err != nil {
			return nil, err
		}
		return !ok, nil
	case Match:
		input, err := Eval(expr.Input, props)
		if err != nil {
			return nil, err
		}
		s, ok := input.(string)
		if !ok {
			return nil, fmt.Errorf("match: input evaluated to %T, want string", input)
		}
		for _, branch := range expr.Branches {
			for _, v := range branch.Values {
				if v == s {
					return Eval(branch.Output, props)
				}
			}
		}
		return Eval(expr.Default, props)
	case Coalesce:
		for _, operand := range expr.Exprs {
			v, err := Eval(operand, props)
			if err != nil {
				return nil, err
			}
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			if v != nil {
				return v, nil
			}
		}
		return "", nil
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}
