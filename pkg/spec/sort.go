package spec

import (
	"cmp"
	"sort"
)

// SortKey is one ordering criterion: a named projection of T plus direction.
// Field names the backend column/attribute the key translates to; the
// comparator drives in-memory ordering. Keys chain as primary/secondary/...
// in a SortChain.
type SortKey[T any] struct {
	Field   string
	Desc    bool
	compare func(a, b T) int
}

// Asc builds an ascending sort key from a projection.
func Asc[T any, V cmp.Ordered](field string, get func(T) V) SortKey[T] {
	return SortKey[T]{
		Field: field,
		compare: func(a, b T) int {
			return cmp.Compare(get(a), get(b))
		},
	}
}

// Desc builds a descending sort key from a projection.
func Desc[T any, V cmp.Ordered](field string, get func(T) V) SortKey[T] {
	return SortKey[T]{
		Field: field,
		Desc:  true,
		compare: func(a, b T) int {
			return cmp.Compare(get(a), get(b))
		},
	}
}

// Compare applies the key's direction to the underlying comparison.
func (k SortKey[T]) Compare(a, b T) int {
	c := k.compare(a, b)
	if k.Desc {
		return -c
	}
	return c
}

// SortChain is an ordered list of sort keys.
type SortChain[T any] []SortKey[T]

// Compare returns the first non-zero key comparison in declared order,
// or zero when the entities tie on every key.
func (c SortChain[T]) Compare(a, b T) int {
	for _, key := range c {
		if v := key.Compare(a, b); v != 0 {
			return v
		}
	}
	return 0
}

// Apply sorts items in place. The sort is stable: entities tied on all keys
// keep their original relative order. An empty chain leaves items untouched.
func (c SortChain[T]) Apply(items []T) {
	if len(c) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return c.Compare(items[i], items[j]) < 0
	})
}
