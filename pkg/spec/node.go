package spec

// Kind discriminates predicate tree nodes.
type Kind int

// Node kinds
const (
	// KindLeaf is an atomic field comparison
	KindLeaf Kind = iota
	// KindAnd is a binary conjunction
	KindAnd
	// KindOr is a binary disjunction
	KindOr
	// KindNot is a negation of a single child
	KindNot
)

// Operator identifies the comparison performed by a leaf predicate.
type Operator string

// Leaf operators
const (
	OpEq     Operator = "eq"
	OpNotEq  Operator = "neq"
	OpGt     Operator = "gt"
	OpGte    Operator = "gte"
	OpLt     Operator = "lt"
	OpLte    Operator = "lte"
	OpIn     Operator = "in"
	OpLike   Operator = "like"
	OpIsNull Operator = "is_null"
)

// Node is one node of a predicate tree. Trees are finite, acyclic, and
// immutable once built; combinators allocate new nodes and never touch
// their operands.
//
// A leaf carries the declarative form of the predicate (Field, Op, Value)
// that backend translators interpret structurally. Leaves built from a raw
// closure have no declarative form and are marked Opaque; only the in-memory
// evaluator can execute them.
type Node struct {
	Kind Kind

	// Leaf payload. Value holds the comparison operand; for OpIn it is a
	// []interface{} of the accepted values, for OpIsNull it is nil.
	Field  string
	Op     Operator
	Value  interface{}
	Opaque bool
	Name   string

	// Children. And/Or use Left and Right, Not uses Left only.
	Left  *Node
	Right *Node
}
