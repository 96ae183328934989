// Package memory evaluates specifications directly against in-memory
// entity collections. It is the reference semantics every backend
// translator must agree with.
package memory

import (
	"github.com/nimburion/querykit/pkg/spec"
)

// Evaluate filters source by testing each element against the specification,
// preserving original relative order. A nil specification matches everything.
// Evaluation is a pure function of its inputs; source is never mutated.
func Evaluate[T any](s spec.Specification[T], source []T) ([]T, error) {
	matched := []T{}
	if s == nil {
		return append(matched, source...), nil
	}
	for _, candidate := range source {
		ok, err := s.IsSatisfiedBy(candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, candidate)
		}
	}
	return matched, nil
}

// Count returns the number of elements satisfying the specification without
// materializing the filtered sequence.
func Count[T any](s spec.Specification[T], source []T) (int64, error) {
	if s == nil {
		return int64(len(source)), nil
	}
	var n int64
	for _, candidate := range source {
		ok, err := s.IsSatisfiedBy(candidate)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}
