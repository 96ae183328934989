package spec

import (
	"errors"
	"testing"
)

// task is the entity used across predicate tests.
type task struct {
	ID        int64
	UserID    int64
	Title     string
	Completed bool
	Priority  int64
	DueDays   *int64
}

func completedSpec() Specification[task] {
	return Eq("completed", func(t task) bool { return t.Completed }, true)
}

func byUserSpec(userID int64) Specification[task] {
	return Eq("user_id", func(t task) int64 { return t.UserID }, userID)
}

func TestLeafConstructors(t *testing.T) {
	due := int64(3)
	sample := task{ID: 1, UserID: 7, Title: "write report", Completed: true, Priority: 2, DueDays: &due}

	tests := []struct {
		name string
		spec Specification[task]
		want bool
	}{
		{"eq match", Eq("user_id", func(x task) int64 { return x.UserID }, 7), true},
		{"eq miss", Eq("user_id", func(x task) int64 { return x.UserID }, 8), false},
		{"neq", NotEq("priority", func(x task) int64 { return x.Priority }, 5), true},
		{"gt match", Gt("priority", func(x task) int64 { return x.Priority }, 1), true},
		{"gt boundary", Gt("priority", func(x task) int64 { return x.Priority }, 2), false},
		{"gte boundary", Gte("priority", func(x task) int64 { return x.Priority }, 2), true},
		{"lt", Lt("priority", func(x task) int64 { return x.Priority }, 3), true},
		{"lte boundary", Lte("priority", func(x task) int64 { return x.Priority }, 2), true},
		{"in match", In("user_id", func(x task) int64 { return x.UserID }, 5, 6, 7), true},
		{"in miss", In("user_id", func(x task) int64 { return x.UserID }, 5, 6), false},
		{"in empty matches nothing", In("user_id", func(x task) int64 { return x.UserID }), false},
		{"like prefix", Like("title", func(x task) string { return x.Title }, "write%"), true},
		{"like single char", Like("title", func(x task) string { return x.Title }, "writ_ report"), true},
		{"like anchored", Like("title", func(x task) string { return x.Title }, "report"), false},
		{"like escapes meta", Like("title", func(x task) string { return x.Title }, "write.report"), false},
		{"is_null on present value", IsNull("due_days", func(x task) *int64 { return x.DueDays }), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.IsSatisfiedBy(sample)
			if err != nil {
				t.Fatalf("IsSatisfiedBy returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsSatisfiedBy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNullMatchesAbsentValue(t *testing.T) {
	s := IsNull("due_days", func(x task) *int64 { return x.DueDays })
	got, err := s.IsSatisfiedBy(task{ID: 2})
	if err != nil {
		t.Fatalf("IsSatisfiedBy returned error: %v", err)
	}
	if !got {
		t.Error("expected nil projection to satisfy IsNull")
	}
}

func TestCombinators(t *testing.T) {
	matching := task{UserID: 7, Completed: true}
	wrongUser := task{UserID: 8, Completed: true}
	incomplete := task{UserID: 7, Completed: false}

	s := completedSpec().And(byUserSpec(7))

	for _, tt := range []struct {
		name      string
		spec      Specification[task]
		candidate task
		want      bool
	}{
		{"and both", s, matching, true},
		{"and left only", s, incomplete, false},
		{"and right only", s, wrongUser, false},
		{"or left", completedSpec().Or(byUserSpec(9)), matching, true},
		{"or right", completedSpec().Or(byUserSpec(7)), incomplete, true},
		{"or neither", byUserSpec(9).Or(byUserSpec(10)), matching, false},
		{"not", completedSpec().Not(), incomplete, true},
		{"not inverse", completedSpec().Not(), matching, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.IsSatisfiedBy(tt.candidate)
			if err != nil {
				t.Fatalf("IsSatisfiedBy returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsSatisfiedBy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombinatorsDoNotMutateOperands(t *testing.T) {
	base := completedSpec()
	baseNode := base.Node()

	_ = base.And(byUserSpec(1))
	_ = base.Or(byUserSpec(2))
	_ = base.Not()

	if base.Node() != baseNode {
		t.Error("composing changed the base specification's node")
	}
	if baseNode.Kind != KindLeaf || baseNode.Field != "completed" {
		t.Errorf("base node mutated: kind=%v field=%q", baseNode.Kind, baseNode.Field)
	}
}

func TestNodeShape(t *testing.T) {
	s := completedSpec().And(byUserSpec(7)).Or(completedSpec().Not())
	root := s.Node()

	if root.Kind != KindOr {
		t.Fatalf("root kind = %v, want KindOr", root.Kind)
	}
	if root.Left.Kind != KindAnd {
		t.Errorf("left kind = %v, want KindAnd", root.Left.Kind)
	}
	if root.Right.Kind != KindNot {
		t.Errorf("right kind = %v, want KindNot", root.Right.Kind)
	}
	if leaf := root.Left.Left; leaf.Kind != KindLeaf || leaf.Op != OpEq || leaf.Field != "completed" {
		t.Errorf("unexpected leaf: %+v", leaf)
	}
}

func TestAndShortCircuits(t *testing.T) {
	calls := 0
	right := Where("counting", func(task) (bool, error) {
		calls++
		return true, nil
	})

	s := byUserSpec(9).And(right)
	if ok, err := s.IsSatisfiedBy(task{UserID: 7}); err != nil || ok {
		t.Fatalf("IsSatisfiedBy = %v, %v", ok, err)
	}
	if calls != 0 {
		t.Errorf("right operand evaluated %d times after left already failed", calls)
	}
}

func TestOrShortCircuits(t *testing.T) {
	calls := 0
	right := Where("counting", func(task) (bool, error) {
		calls++
		return false, nil
	})

	s := byUserSpec(7).Or(right)
	if ok, err := s.IsSatisfiedBy(task{UserID: 7}); err != nil || !ok {
		t.Fatalf("IsSatisfiedBy = %v, %v", ok, err)
	}
	if calls != 0 {
		t.Errorf("right operand evaluated %d times after left already matched", calls)
	}
}

func TestPredicateErrorPropagates(t *testing.T) {
	boom := errors.New("malformed entity")
	failing := Where("failing", func(task) (bool, error) {
		return false, boom
	})

	for _, tt := range []struct {
		name string
		spec Specification[task]
	}{
		{"leaf", failing},
		{"under and", completedSpec().And(failing)},
		{"under or", byUserSpec(9).Or(failing)},
		{"under not", failing.Not()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.IsSatisfiedBy(task{Completed: true})
			if err == nil {
				t.Fatal("expected an error")
			}
			var evalErr *PredicateEvaluationError
			if !errors.As(err, &evalErr) {
				t.Fatalf("error %T is not a PredicateEvaluationError", err)
			}
			if !errors.Is(err, boom) {
				t.Error("wrapped cause lost")
			}
		})
	}
}

func TestPredicateErrorNotDoubleWrapped(t *testing.T) {
	failing := Where("failing", func(task) (bool, error) {
		return false, errors.New("bad data")
	})
	_, err := failing.Not().IsSatisfiedBy(task{})

	var evalErr *PredicateEvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error %T is not a PredicateEvaluationError", err)
	}
	if _, nested := evalErr.Err.(*PredicateEvaluationError); nested {
		t.Error("evaluation error wrapped twice")
	}
}

func TestWhereNodeIsOpaque(t *testing.T) {
	s := Where("custom", func(task) (bool, error) { return true, nil })
	node := s.Node()
	if !node.Opaque {
		t.Error("Where leaf must be opaque")
	}
	if node.Name != "custom" {
		t.Errorf("node name = %q, want %q", node.Name, "custom")
	}
}
