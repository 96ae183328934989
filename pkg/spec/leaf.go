package spec

import (
	"cmp"
	"regexp"
	"strings"
)

// Eq matches entities whose projected field equals want.
// The field name is the backend column/attribute the leaf translates to.
func Eq[T any, V comparable](field string, get func(T) V, want V) Specification[T] {
	node := &Node{Kind: KindLeaf, Field: field, Op: OpEq, Value: want}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return get(candidate) == want, nil
	})
}

// NotEq matches entities whose projected field differs from want.
func NotEq[T any, V comparable](field string, get func(T) V, want V) Specification[T] {
	node := &Node{Kind: KindLeaf, Field: field, Op: OpNotEq, Value: want}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return get(candidate) != want, nil
	})
}

// Gt matches entities whose projected field is strictly greater than bound.
func Gt[T any, V cmp.Ordered](field string, get func(T) V, bound V) Specification[T] {
	node := &Node{Kind: KindLeaf, Field: field, Op: OpGt, Value: bound}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return get(candidate) > bound, nil
	})
}

// Gte matches entities whose projected field is greater than or equal to bound.
func Gte[T any, V cmp.Ordered](field string, get func(T) V, bound V) Specification[T] {
	node := &Node{Kind: KindLeaf, Field: field, Op: OpGte, Value: bound}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return get(candidate) >= bound, nil
	})
}

// Lt matches entities whose projected field is strictly less than bound.
func Lt[T any, V cmp.Ordered](field string, get func(T) V, bound V) Specification[T] {
	node := &Node{Kind: KindLeaf, Field: field, Op: OpLt, Value: bound}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return get(candidate) < bound, nil
	})
}

// Lte matches entities whose projected field is less than or equal to bound.
func Lte[T any, V cmp.Ordered](field string, get func(T) V, bound V) Specification[T] {
	node := &Node{Kind: KindLeaf, Field: field, Op: OpLte, Value: bound}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return get(candidate) <= bound, nil
	})
}

// In matches entities whose projected field equals any of the given values.
// The declarative form stores the values as []interface{} in declaration order.
func In[T any, V comparable](field string, get func(T) V, values ...V) Specification[T] {
	accepted := make(map[V]struct{}, len(values))
	boxed := make([]interface{}, 0, len(values))
	for _, v := range values {
		accepted[v] = struct{}{}
		boxed = append(boxed, v)
	}
	node := &Node{Kind: KindLeaf, Field: field, Op: OpIn, Value: boxed}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		_, ok := accepted[get(candidate)]
		return ok, nil
	})
}

// Like matches string fields against a SQL LIKE pattern: '%' matches any
// sequence of characters and '_' matches exactly one. Matching is
// case-sensitive and anchored at both ends.
func Like[T any](field string, get func(T) string, pattern string) Specification[T] {
	re := likeRegexp(pattern)
	node := &Node{Kind: KindLeaf, Field: field, Op: OpLike, Value: pattern}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return re.MatchString(get(candidate)), nil
	})
}

// IsNull matches entities whose projected nullable field is absent.
func IsNull[T any, V any](field string, get func(T) *V) Specification[T] {
	node := &Node{Kind: KindLeaf, Field: field, Op: OpIsNull}
	return newLeaf[T](node, func(candidate T) (bool, error) {
		return get(candidate) == nil, nil
	})
}

// Where builds a specification from a raw predicate closure. The resulting
// leaf has no declarative form: the in-memory evaluator executes it directly,
// and every backend translator rejects it with an UnsupportedPredicateError.
// The name identifies the predicate in diagnostics.
func Where[T any](name string, test func(T) (bool, error)) Specification[T] {
	node := &Node{Kind: KindLeaf, Opaque: true, Name: name}
	return newLeaf[T](node, test)
}

// likeRegexp compiles a SQL LIKE pattern into an anchored regular expression.
func likeRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`\A`)
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(`(?s:.*)`)
		case '_':
			b.WriteString(`(?s:.)`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`\z`)
	return regexp.MustCompile(b.String())
}
