package spec

// Specification is an immutable, composable predicate over entities of type T.
// It exists in two equivalent forms: an executable test (IsSatisfiedBy) used
// by the in-memory evaluator, and a declarative predicate tree (Node) that
// backend translators map to native filters. Typed constructors build both
// forms together so they cannot disagree.
type Specification[T any] interface {
	// IsSatisfiedBy reports whether the candidate matches the specification.
	// A predicate that fails during evaluation returns a
	// *PredicateEvaluationError, distinct from a "not satisfied" result.
	IsSatisfiedBy(candidate T) (bool, error)

	// Node returns the root of the declarative predicate tree.
	Node() *Node

	// And returns a new specification satisfied when both operands are.
	And(other Specification[T]) Specification[T]

	// Or returns a new specification satisfied when either operand is.
	Or(other Specification[T]) Specification[T]

	// Not returns a new specification with the inverse selection.
	Not() Specification[T]
}

// leafSpecification pairs a declarative leaf node with its executable test.
type leafSpecification[T any] struct {
	node *Node
	test func(T) (bool, error)
}

func newLeaf[T any](node *Node, test func(T) (bool, error)) Specification[T] {
	return &leafSpecification[T]{node: node, test: test}
}

func (s *leafSpecification[T]) IsSatisfiedBy(candidate T) (bool, error) {
	ok, err := s.test(candidate)
	if err != nil {
		field := s.node.Field
		if field == "" {
			field = s.node.Name
		}
		return false, NewPredicateEvaluationError(field, err)
	}
	return ok, nil
}

func (s *leafSpecification[T]) Node() *Node { return s.node }

func (s *leafSpecification[T]) And(other Specification[T]) Specification[T] {
	return newAnd[T](s, other)
}

func (s *leafSpecification[T]) Or(other Specification[T]) Specification[T] {
	return newOr[T](s, other)
}

func (s *leafSpecification[T]) Not() Specification[T] {
	return newNot[T](s)
}

// andSpecification is the conjunction of two specifications.
type andSpecification[T any] struct {
	left  Specification[T]
	right Specification[T]
	node  *Node
}

func newAnd[T any](left, right Specification[T]) Specification[T] {
	return &andSpecification[T]{
		left:  left,
		right: right,
		node:  &Node{Kind: KindAnd, Left: left.Node(), Right: right.Node()},
	}
}

// IsSatisfiedBy short-circuits left to right.
func (s *andSpecification[T]) IsSatisfiedBy(candidate T) (bool, error) {
	ok, err := s.left.IsSatisfiedBy(candidate)
	if err != nil || !ok {
		return false, err
	}
	return s.right.IsSatisfiedBy(candidate)
}

func (s *andSpecification[T]) Node() *Node { return s.node }

func (s *andSpecification[T]) And(other Specification[T]) Specification[T] {
	return newAnd[T](s, other)
}

func (s *andSpecification[T]) Or(other Specification[T]) Specification[T] {
	return newOr[T](s, other)
}

func (s *andSpecification[T]) Not() Specification[T] {
	return newNot[T](s)
}

// orSpecification is the disjunction of two specifications.
type orSpecification[T any] struct {
	left  Specification[T]
	right Specification[T]
	node  *Node
}

func newOr[T any](left, right Specification[T]) Specification[T] {
	return &orSpecification[T]{
		left:  left,
		right: right,
		node:  &Node{Kind: KindOr, Left: left.Node(), Right: right.Node()},
	}
}

// IsSatisfiedBy short-circuits left to right.
func (s *orSpecification[T]) IsSatisfiedBy(candidate T) (bool, error) {
	ok, err := s.left.IsSatisfiedBy(candidate)
	if err != nil || ok {
		return ok, err
	}
	return s.right.IsSatisfiedBy(candidate)
}

func (s *orSpecification[T]) Node() *Node { return s.node }

func (s *orSpecification[T]) And(other Specification[T]) Specification[T] {
	return newAnd[T](s, other)
}

func (s *orSpecification[T]) Or(other Specification[T]) Specification[T] {
	return newOr[T](s, other)
}

func (s *orSpecification[T]) Not() Specification[T] {
	return newNot[T](s)
}

// notSpecification inverts a specification.
type notSpecification[T any] struct {
	inner Specification[T]
	node  *Node
}

func newNot[T any](inner Specification[T]) Specification[T] {
	return &notSpecification[T]{
		inner: inner,
		node:  &Node{Kind: KindNot, Left: inner.Node()},
	}
}

func (s *notSpecification[T]) IsSatisfiedBy(candidate T) (bool, error) {
	ok, err := s.inner.IsSatisfiedBy(candidate)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (s *notSpecification[T]) Node() *Node { return s.node }

func (s *notSpecification[T]) And(other Specification[T]) Specification[T] {
	return newAnd[T](s, other)
}

func (s *notSpecification[T]) Or(other Specification[T]) Specification[T] {
	return newOr[T](s, other)
}

func (s *notSpecification[T]) Not() Specification[T] {
	return newNot[T](s)
}

// And returns the conjunction of two specifications. Equivalent to a.And(b).
func And[T any](a, b Specification[T]) Specification[T] { return newAnd[T](a, b) }

// Or returns the disjunction of two specifications. Equivalent to a.Or(b).
func Or[T any](a, b Specification[T]) Specification[T] { return newOr[T](a, b) }

// Not returns the inverse of a specification. Equivalent to a.Not().
func Not[T any](a Specification[T]) Specification[T] { return newNot[T](a) }
