package searchspec

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nimburion/querykit/pkg/spec"
)

type task struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	DueDays   *int64 `json:"due_days,omitempty"`
}

func userIDField(t task) int64   { return t.UserID }
func titleField(t task) string   { return t.Title }
func completedField(t task) bool { return t.Completed }

func TestTranslateLeaves(t *testing.T) {
	tests := []struct {
		name string
		spec spec.Specification[task]
		want Query
	}{
		{
			name: "eq becomes term",
			spec: spec.Eq("user_id", userIDField, int64(7)),
			want: Query{"term": map[string]interface{}{
				"user_id": map[string]interface{}{"value": int64(7)},
			}},
		},
		{
			name: "neq becomes negated term",
			spec: spec.NotEq("user_id", userIDField, int64(7)),
			want: Query{"bool": map[string]interface{}{
				"must_not": []interface{}{
					Query{"term": map[string]interface{}{
						"user_id": map[string]interface{}{"value": int64(7)},
					}},
				},
			}},
		},
		{
			name: "gt becomes range",
			spec: spec.Gt("user_id", userIDField, int64(3)),
			want: Query{"range": map[string]interface{}{
				"user_id": map[string]interface{}{"gt": int64(3)},
			}},
		},
		{
			name: "lte becomes range",
			spec: spec.Lte("user_id", userIDField, int64(3)),
			want: Query{"range": map[string]interface{}{
				"user_id": map[string]interface{}{"lte": int64(3)},
			}},
		},
		{
			name: "in becomes terms",
			spec: spec.In("user_id", userIDField, int64(1), int64(2)),
			want: Query{"terms": map[string]interface{}{
				"user_id": []interface{}{int64(1), int64(2)},
			}},
		},
		{
			name: "like becomes wildcard",
			spec: spec.Like("title", titleField, "report_%"),
			want: Query{"wildcard": map[string]interface{}{
				"title": map[string]interface{}{"value": "report?*"},
			}},
		},
		{
			name: "is null becomes negated exists",
			spec: spec.IsNull("due_days", func(x task) *int64 { return x.DueDays }),
			want: Query{"bool": map[string]interface{}{
				"must_not": []interface{}{
					Query{"exists": map[string]interface{}{"field": "due_days"}},
				},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := Translate(tt.spec.Node())
			if err != nil {
				t.Fatalf("Translate returned error: %v", err)
			}
			if !reflect.DeepEqual(query, tt.want) {
				t.Errorf("query = %#v, want %#v", query, tt.want)
			}
		})
	}
}

func TestTranslateCombinators(t *testing.T) {
	completed := spec.Eq("completed", completedField, true)
	byUser := spec.Eq("user_id", userIDField, int64(7))

	termCompleted := Query{"term": map[string]interface{}{
		"completed": map[string]interface{}{"value": true},
	}}
	termUser := Query{"term": map[string]interface{}{
		"user_id": map[string]interface{}{"value": int64(7)},
	}}

	tests := []struct {
		name string
		spec spec.Specification[task]
		want Query
	}{
		{
			name: "and becomes must",
			spec: completed.And(byUser),
			want: Query{"bool": map[string]interface{}{
				"must": []interface{}{termCompleted, termUser},
			}},
		},
		{
			name: "or becomes should",
			spec: completed.Or(byUser),
			want: Query{"bool": map[string]interface{}{
				"should":               []interface{}{termCompleted, termUser},
				"minimum_should_match": 1,
			}},
		},
		{
			name: "not becomes must_not",
			spec: completed.Not(),
			want: Query{"bool": map[string]interface{}{
				"must_not": []interface{}{termCompleted},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := Translate(tt.spec.Node())
			if err != nil {
				t.Fatalf("Translate returned error: %v", err)
			}
			if !reflect.DeepEqual(query, tt.want) {
				t.Errorf("query = %#v, want %#v", query, tt.want)
			}
		})
	}
}

func TestTranslateNilNodeMatchesAll(t *testing.T) {
	query, err := Translate(nil)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	want := Query{"match_all": map[string]interface{}{}}
	if !reflect.DeepEqual(query, want) {
		t.Errorf("query = %#v, want %#v", query, want)
	}
}

func TestTranslateRejectsOpaqueLeaf(t *testing.T) {
	opaque := spec.Where("custom rule", func(task) (bool, error) { return true, nil })

	_, err := Translate(opaque.Node())
	var unsupported *spec.UnsupportedPredicateError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error %T is not an UnsupportedPredicateError", err)
	}
}

func TestWildcardPatternEscaping(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"report%", "report*"},
		{"_x_", "?x?"},
		{"50*", `50\*`},
		{"a?b", `a\?b`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := wildcardPattern(tt.pattern); got != tt.want {
			t.Errorf("wildcardPattern(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestSortClauses(t *testing.T) {
	chain := spec.SortChain[task]{
		spec.Asc("title", titleField),
		spec.Desc("user_id", userIDField),
	}

	clauses := SortClauses(chain, "_id")
	want := []interface{}{
		map[string]interface{}{"title": map[string]interface{}{"order": "asc"}},
		map[string]interface{}{"user_id": map[string]interface{}{"order": "desc"}},
	}
	if !reflect.DeepEqual(clauses, want) {
		t.Errorf("clauses = %#v, want %#v", clauses, want)
	}

	clauses = SortClauses(spec.SortChain[task]{}, "_id")
	want = []interface{}{
		map[string]interface{}{"_id": map[string]interface{}{"order": "asc"}},
	}
	if !reflect.DeepEqual(clauses, want) {
		t.Errorf("default clauses = %#v, want %#v", clauses, want)
	}
}
