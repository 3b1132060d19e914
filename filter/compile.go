package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by Compile.
var (
	// ErrUnsupported is returned when a filter carries an operator the
	// compiler does not recognize.
	ErrUnsupported = errors.New("unsupported filter operator")

	// ErrMalformed is returned when a filter node cannot be compiled as
	// written, e.g. an unknown node type.
	ErrMalformed = errors.New("malformed filter node")
)

// CompileError reports a filter node that could not be compiled.
type CompileError struct {
	Node  string
	Cause error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Node, e.Cause)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error { return e.Cause }

// Compiled is a compiled boolean expression: a query fragment with exactly one
// positional placeholder per element of Values, in bind order. An empty filter
// compiles to an empty Query and no Values; callers omit the WHERE clause
// entirely in that case.
type Compiled struct {
	Query  string
	Values []any
}

// Compile translates a filter tree into a parameterized SQL boolean
// expression. Field names are passed through toSQL before quoting; operand
// values never appear in the query text. A nil node compiles to the empty
// condition. toSQL may be nil, in which case names are used as-is.
func Compile(node Node, toSQL func(string) string) (Compiled, error) {
	if toSQL == nil {
		toSQL = func(name string) string { return name }
	}
	query, values, err := compileNode(node, toSQL)
	if err != nil {
		return Compiled{}, err
	}
	return Compiled{Query: query, Values: values}, nil
}

func compileNode(node Node, toSQL func(string) string) (string, []any, error) {
	switch n := node.(type) {
	case nil:
		return "", nil, nil
	case Cmp:
		return compileCmp(n, toSQL)
	case Set:
		return compileSet(n, toSQL)
	case Null:
		if n.Negate {
			return fmt.Sprintf("`%s` IS NOT NULL", toSQL(n.Field)), nil, nil
		}
		return fmt.Sprintf("`%s` IS NULL", toSQL(n.Field)), nil, nil
	case Range:
		return fmt.Sprintf("`%s` BETWEEN ? AND ?", toSQL(n.Field)), []any{n.Low, n.High}, nil
	case And:
		return compileLogical([]Node(n), " AND ", toSQL)
	case Or:
		return compileLogical([]Node(n), " OR ", toSQL)
	case Not:
		query, values, err := compileNode(n.Node, toSQL)
		if err != nil {
			return "", nil, err
		}
		if query == "" {
			return "", nil, nil
		}
		return "NOT (" + query + ")", values, nil
	default:
		return "", nil, &CompileError{Node: fmt.Sprintf("%T", node), Cause: ErrMalformed}
	}
}

func compileCmp(n Cmp, toSQL func(string) string) (string, []any, error) {
	switch n.Op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpLike, OpRegexp:
		return fmt.Sprintf("`%s` %s ?", toSQL(n.Field), n.Op), []any{n.Value}, nil
	default:
		return "", nil, &CompileError{
			Node:  fmt.Sprintf("comparison on %q", n.Field),
			Cause: fmt.Errorf("%w: %q", ErrUnsupported, string(n.Op)),
		}
	}
}

func compileSet(n Set, toSQL func(string) string) (string, []any, error) {
	// An empty set has no valid IN () form; it matches nothing.
	if len(n.Values) == 0 {
		return "1 = 0", nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(n.Values)), ", ")
	op := "IN"
	if n.Negate {
		op = "NOT IN"
	}
	values := make([]any, len(n.Values))
	copy(values, n.Values)
	return fmt.Sprintf("`%s` %s (%s)", toSQL(n.Field), op, placeholders), values, nil
}

func compileLogical(children []Node, joiner string, toSQL func(string) string) (string, []any, error) {
	var parts []string
	var values []any
	for _, child := range children {
		query, childValues, err := compileNode(child, toSQL)
		if err != nil {
			return "", nil, err
		}
		if query == "" {
			continue
		}
		// Parenthesize nested logical children so precedence survives
		// arbitrary AND/OR nesting.
		switch child.(type) {
		case And, Or:
			query = "(" + query + ")"
		}
		parts = append(parts, query)
		values = append(values, childValues...)
	}
	if len(parts) == 0 {
		return "", nil, nil
	}
	return strings.Join(parts, joiner), values, nil
}
