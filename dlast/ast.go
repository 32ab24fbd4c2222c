// Package dlast defines the expression abstract syntax tree that the
// compiler lowers into textual Datalog-like program fragments.
//
// The AST is an immutable tagged union, split into value expressions
// (Expr) and boolean expressions (BoolExpr). Every node is a plain struct;
// equality is structural (two nodes built from the same field values are
// interchangeable). The tree is finite and acyclic by construction — there
// is no way to build a cycle through these constructors.
package dlast

// Expr is any value-producing AST node: a column reference, a literal, an
// arithmetic operation, a function call, an ordering decoration, or an
// aggregation.
type Expr interface {
	isExpr()
}

// BoolExpr is any boolean-producing AST node.
type BoolExpr interface {
	isBoolExpr()
}

// ArithOp is the operator of an Arithmetic node.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

// CompareOp is the operator of a Comparison node.
type CompareOp int

const (
	Eq CompareOp = iota
	Neq
	Lt
	Lte
	Gt
	Gte
)

// Column references a column on a relation or one of its aliases.
type Column struct {
	Relation string
	Column   string
	Alias    string // "" when the relation is referenced without an alias
}

func (Column) isExpr() {}

// ScalarKind selects which value field of a Literal is populated; exactly
// one of them is, chosen by the Literal's Kind.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarFloat
	ScalarString
	ScalarVector    // []float64
	ScalarTimestamp // integer milliseconds
)

type Literal struct {
	Kind   ScalarKind
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Vector []float64
}

func (Literal) isExpr() {}

// NullLiteral builds the null literal.
func NullLiteral() Literal { return Literal{Kind: ScalarNull} }

// BoolLiteral builds a boolean literal.
func BoolLiteral(v bool) Literal { return Literal{Kind: ScalarBool, Bool: v} }

// IntLiteral builds an integer literal.
func IntLiteral(v int64) Literal { return Literal{Kind: ScalarInt, Int: v} }

// FloatLiteral builds a floating-point literal.
func FloatLiteral(v float64) Literal { return Literal{Kind: ScalarFloat, Float: v} }

// StringLiteral builds a string literal.
func StringLiteral(v string) Literal { return Literal{Kind: ScalarString, Str: v} }

// VectorLiteral builds a vector literal.
func VectorLiteral(v []float64) Literal { return Literal{Kind: ScalarVector, Vector: v} }

// TimestampLiteral builds a timestamp literal from integer milliseconds.
func TimestampLiteral(ms int64) Literal { return Literal{Kind: ScalarTimestamp, Int: ms} }

// Arithmetic is a binary arithmetic operation.
type Arithmetic struct {
	Op    ArithOp
	Left  Expr
	Right Expr
}

func (Arithmetic) isExpr() {}

// FuncCall is a built-in function application. Name is passed through
// verbatim to the emitted program.
type FuncCall struct {
	Name string
	Args []Expr
}

func (FuncCall) isExpr() {}

// OrderedColumn decorates an inner expression with a sort direction.
type OrderedColumn struct {
	Inner      Expr
	Descending bool
}

func (OrderedColumn) isExpr() {}

// AggExpr is an aggregation node. Column is the aggregated expression for
// simple aggregations (count, sum, min, max, avg); Params/Passthrough/
// OrderColumn/Desc carry the extra positional arguments used by top_k,
// top_k_threshold, and within_radius (see the agg package).
type AggExpr struct {
	Func        string
	Column      Expr // nil for count() with no column
	Distinct    bool
	Params      []Expr
	Passthrough []Expr
	OrderColumn Expr
	Desc        bool
}

func (AggExpr) isExpr() {}

// Comparison is a binary boolean comparison.
type Comparison struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (Comparison) isBoolExpr() {}

// And is a boolean conjunction.
type And struct {
	Left  BoolExpr
	Right BoolExpr
}

func (And) isBoolExpr() {}

// Or is a boolean disjunction. The compiler never emits an Or directly;
// queries containing one are split into one query per leaf branch.
type Or struct {
	Left  BoolExpr
	Right BoolExpr
}

func (Or) isBoolExpr() {}

// Not negates a boolean expression.
type Not struct {
	Operand BoolExpr
}

func (Not) isBoolExpr() {}

// InExpr tests membership of a column's value in another relation's
// column.
type InExpr struct {
	Column       Column
	TargetColumn Column
}

func (InExpr) isBoolExpr() {}

// NegatedIn is the negation of InExpr.
type NegatedIn struct {
	Column       Column
	TargetColumn Column
}

func (NegatedIn) isBoolExpr() {}

// Binding is one column→expression pair inside a MatchExpr, kept as an
// ordered slice element (rather than a map) so compilation is
// deterministic and matches declaration order.
type Binding struct {
	Column string
	Value  Expr
}

// MatchExpr is a multi-column existence (or non-existence) check against a
// relation.
type MatchExpr struct {
	Relation string
	Bindings []Binding
	Negated  bool
}

func (MatchExpr) isBoolExpr() {}
