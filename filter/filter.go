// Package filter describes backend-agnostic row-selection predicates and
// compiles them to parameterized SQL boolean expressions.
package filter

// Op identifies a leaf comparison operator.
type Op string

// Leaf comparison operators. The token is the SQL operator text.
const (
	OpEq     Op = "="
	OpNe     Op = "!="
	OpLt     Op = "<"
	OpLe     Op = "<="
	OpGt     Op = ">"
	OpGe     Op = ">="
	OpLike   Op = "LIKE"
	OpRegexp Op = "REGEXP"
)

// Node is one node of a filter tree. A tree is immutable once handed to
// Compile; the compiler never mutates it.
type Node interface {
	filterNode()
}

// Cmp is a leaf comparison: field <op> value.
type Cmp struct {
	Field string
	Op    Op
	Value any
}

// Set is a set-membership leaf: field IN (...) or field NOT IN (...).
type Set struct {
	Field  string
	Negate bool
	Values []any
}

// Null is a null-check leaf: field IS NULL or IS NOT NULL. It binds no value.
type Null struct {
	Field  string
	Negate bool
}

// Range is a range leaf: field BETWEEN low AND high.
type Range struct {
	Field string
	Low   any
	High  any
}

// And is the conjunction of its children.
type And []Node

// Or is the disjunction of its children.
type Or []Node

// Not negates a single child.
type Not struct {
	Node Node
}

func (Cmp) filterNode()   {}
func (Set) filterNode()   {}
func (Null) filterNode()  {}
func (Range) filterNode() {}
func (And) filterNode()   {}
func (Or) filterNode()    {}
func (Not) filterNode()   {}

// Equals matches rows where field = value.
func Equals(field string, value any) Cmp { return Cmp{Field: field, Op: OpEq, Value: value} }

// NotEquals matches rows where field != value.
func NotEquals(field string, value any) Cmp { return Cmp{Field: field, Op: OpNe, Value: value} }

// LessThan matches rows where field < value.
func LessThan(field string, value any) Cmp { return Cmp{Field: field, Op: OpLt, Value: value} }

// LessOrEqual matches rows where field <= value.
func LessOrEqual(field string, value any) Cmp { return Cmp{Field: field, Op: OpLe, Value: value} }

// GreaterThan matches rows where field > value.
func GreaterThan(field string, value any) Cmp { return Cmp{Field: field, Op: OpGt, Value: value} }

// GreaterOrEqual matches rows where field >= value.
func GreaterOrEqual(field string, value any) Cmp {
	return Cmp{Field: field, Op: OpGe, Value: value}
}

// Like matches rows where field LIKE pattern.
func Like(field string, pattern string) Cmp { return Cmp{Field: field, Op: OpLike, Value: pattern} }

// Match matches rows where field REGEXP pattern.
func Match(field string, pattern string) Cmp {
	return Cmp{Field: field, Op: OpRegexp, Value: pattern}
}

// In matches rows where field is one of values.
func In(field string, values ...any) Set { return Set{Field: field, Values: values} }

// NotIn matches rows where field is none of values.
func NotIn(field string, values ...any) Set {
	return Set{Field: field, Negate: true, Values: values}
}

// IsNull matches rows where field IS NULL.
func IsNull(field string) Null { return Null{Field: field} }

// IsNotNull matches rows where field IS NOT NULL.
func IsNotNull(field string) Null { return Null{Field: field, Negate: true} }

// Between matches rows where field BETWEEN low AND high.
func Between(field string, low, high any) Range {
	return Range{Field: field, Low: low, High: high}
}
