package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Safe arithmetic expression evaluator for user-configured formulas
// (accessory quantities, option calculations). Supports + - * / ( ), numeric
// literals, named variables, and a whitelist of functions: ceiling (alias
// ceil), floor, min, max. Function calls are rewritten to numeric literals
// before the arithmetic parse; the parser itself only sees arithmetic.
// There is no host-language evaluation anywhere on this path; formulas come
// from end-user configuration and are treated as untrusted input.

var (
	validExprChars  = regexp.MustCompile(`^[a-zA-Z0-9_+\-*/.(), ]+$`)
	funcNamePattern = regexp.MustCompile(`(?i)\b(ceiling|ceil|floor|min|max)\s*\(`)
)

// Evaluate computes the value of expr against the given variable bindings.
// Variable names match [a-zA-Z_][a-zA-Z0-9_]*. Errors are typed:
// InvalidExpressionError, UnknownVariableError, DivisionByZeroError.
func Evaluate(expr string, vars map[string]float64) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, &InvalidExpressionError{Expr: expr, Reason: "empty expression"}
	}
	if !validExprChars.MatchString(expr) {
		return 0, &InvalidExpressionError{Expr: expr, Reason: "disallowed character"}
	}

	expanded, err := expandFunctions(expr, vars)
	if err != nil {
		return 0, err
	}

	p := &exprParser{src: expanded, full: expr, vars: vars}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, &InvalidExpressionError{Expr: expr, Reason: fmt.Sprintf("unexpected %q", p.src[p.pos])}
	}
	return v, nil
}

// expandFunctions replaces each whitelisted function call with the numeric
// result of its evaluated argument(s). Argument expressions are evaluated as
// full expressions, so nested calls resolve through recursion even though the
// arithmetic grammar itself has no function production.
func expandFunctions(expr string, vars map[string]float64) (string, error) {
	for {
		loc := funcNamePattern.FindStringSubmatchIndex(expr)
		if loc == nil {
			return expr, nil
		}
		name := strings.ToLower(expr[loc[2]:loc[3]])
		open := loc[1] - 1 // the '(' matched by the pattern
		close, err := matchingParen(expr, open)
		if err != nil {
			return "", &InvalidExpressionError{Expr: expr, Reason: err.Error()}
		}

		args := splitArgs(expr[open+1 : close])
		vals := make([]float64, len(args))
		for i, a := range args {
			v, err := Evaluate(a, vars)
			if err != nil {
				return "", err
			}
			vals[i] = v
		}

		var result float64
		switch name {
		case "ceiling", "ceil":
			if len(vals) != 1 {
				return "", &InvalidExpressionError{Expr: expr, Reason: name + " expects 1 argument"}
			}
			result = math.Ceil(vals[0])
		case "floor":
			if len(vals) != 1 {
				return "", &InvalidExpressionError{Expr: expr, Reason: "floor expects 1 argument"}
			}
			result = math.Floor(vals[0])
		case "min":
			if len(vals) != 2 {
				return "", &InvalidExpressionError{Expr: expr, Reason: "min expects 2 arguments"}
			}
			result = math.Min(vals[0], vals[1])
		case "max":
			if len(vals) != 2 {
				return "", &InvalidExpressionError{Expr: expr, Reason: "max expects 2 arguments"}
			}
			result = math.Max(vals[0], vals[1])
		}

		lit := strconv.FormatFloat(result, 'f', -1, 64)
		if result < 0 {
			lit = "(" + lit + ")"
		}
		expr = expr[:loc[0]] + lit + expr[close+1:]
	}
}

// matchingParen returns the index of the ')' closing the '(' at open.
func matchingParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parentheses")
}

// splitArgs splits a function argument list on top-level commas.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}

// exprParser is a recursive-descent parser over the function-expanded source.
// Grammar: expr = term {('+'|'-') term}; term = factor {('*'|'/') factor};
// factor = number | ident | '-' factor | '(' expr ')'.
type exprParser struct {
	src  string
	pos  int
	full string // original expression, for error reporting
	vars map[string]float64
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return v, nil
		}
		switch p.src[p.pos] {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return v, nil
		}
		switch p.src[p.pos] {
		case '*':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, &DivisionByZeroError{Expr: p.full}
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, &InvalidExpressionError{Expr: p.full, Reason: "unexpected end of expression"}
	}
	c := p.src[p.pos]
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return 0, &InvalidExpressionError{Expr: p.full, Reason: "missing closing parenthesis"}
		}
		p.pos++
		return v, nil
	case c == '-':
		p.pos++
		v, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return 0, &InvalidExpressionError{Expr: p.full, Reason: "malformed number " + p.src[start:p.pos]}
		}
		return v, nil
	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		name := p.src[start:p.pos]
		v, ok := p.vars[name]
		if !ok {
			return 0, &UnknownVariableError{Name: name, Expr: p.full}
		}
		return v, nil
	default:
		return 0, &InvalidExpressionError{Expr: p.full, Reason: fmt.Sprintf("unexpected %q", c)}
	}
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
