package pricing

import "fmt"

// InvalidExpressionError reports a formula that failed to parse: a disallowed
// character, unbalanced parentheses, or malformed syntax.
type InvalidExpressionError struct {
	Expr   string
	Reason string
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", e.Expr, e.Reason)
}

// UnknownVariableError reports an identifier with no binding in the
// evaluation context. It fails the single formula, not the whole calculation.
type UnknownVariableError struct {
	Name string
	Expr string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q in expression %q", e.Name, e.Expr)
}

// DivisionByZeroError reports a division by zero during formula evaluation.
type DivisionByZeroError struct {
	Expr string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero in expression %q", e.Expr)
}

// InvalidDimensionError reports a required measurement that is missing or
// non-positive. Zero and negative are both invalid; any positive value is not.
type InvalidDimensionError struct {
	Field string
	Value float64
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid dimension %s: %v (must be > 0)", e.Field, e.Value)
}
