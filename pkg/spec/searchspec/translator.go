// Package searchspec translates predicate trees into OpenSearch and
// Elasticsearch bool queries and executes specification queries through a
// search store adapter.
package searchspec

import (
	"fmt"
	"strings"

	"github.com/nimburion/querykit/pkg/spec"
)

const backendName = "search"

// Query is a search-engine query body fragment.
type Query map[string]interface{}

// Translate maps a predicate tree to a bool query. A nil node yields the
// match-all query. Opaque leaves are rejected with an
// UnsupportedPredicateError.
func Translate(node *spec.Node) (Query, error) {
	if node == nil {
		return Query{"match_all": map[string]interface{}{}}, nil
	}
	switch node.Kind {
	case spec.KindAnd:
		left, err := Translate(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := Translate(node.Right)
		if err != nil {
			return nil, err
		}
		return Query{"bool": map[string]interface{}{
			"must": []interface{}{left, right},
		}}, nil
	case spec.KindOr:
		left, err := Translate(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := Translate(node.Right)
		if err != nil {
			return nil, err
		}
		return Query{"bool": map[string]interface{}{
			"should":               []interface{}{left, right},
			"minimum_should_match": 1,
		}}, nil
	case spec.KindNot:
		inner, err := Translate(node.Left)
		if err != nil {
			return nil, err
		}
		return Query{"bool": map[string]interface{}{
			"must_not": []interface{}{inner},
		}}, nil
	case spec.KindLeaf:
		return translateLeaf(node)
	default:
		return nil, fmt.Errorf("unknown predicate node kind %d", node.Kind)
	}
}

func translateLeaf(node *spec.Node) (Query, error) {
	if node.Opaque {
		return nil, spec.NewUnsupportedPredicateError(backendName, node.Name, "")
	}

	switch node.Op {
	case spec.OpEq:
		return Query{"term": map[string]interface{}{
			node.Field: map[string]interface{}{"value": node.Value},
		}}, nil
	case spec.OpNotEq:
		eq, err := translateLeaf(&spec.Node{Kind: spec.KindLeaf, Field: node.Field, Op: spec.OpEq, Value: node.Value})
		if err != nil {
			return nil, err
		}
		return Query{"bool": map[string]interface{}{
			"must_not": []interface{}{eq},
		}}, nil
	case spec.OpGt:
		return rangeQuery(node.Field, "gt", node.Value), nil
	case spec.OpGte:
		return rangeQuery(node.Field, "gte", node.Value), nil
	case spec.OpLt:
		return rangeQuery(node.Field, "lt", node.Value), nil
	case spec.OpLte:
		return rangeQuery(node.Field, "lte", node.Value), nil
	case spec.OpIn:
		values, ok := node.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("in predicate on field %q holds %T, want []interface{}", node.Field, node.Value)
		}
		return Query{"terms": map[string]interface{}{
			node.Field: values,
		}}, nil
	case spec.OpLike:
		pattern, ok := node.Value.(string)
		if !ok {
			return nil, fmt.Errorf("like predicate on field %q holds %T, want string", node.Field, node.Value)
		}
		return Query{"wildcard": map[string]interface{}{
			node.Field: map[string]interface{}{"value": wildcardPattern(pattern)},
		}}, nil
	case spec.OpIsNull:
		return Query{"bool": map[string]interface{}{
			"must_not": []interface{}{
				Query{"exists": map[string]interface{}{"field": node.Field}},
			},
		}}, nil
	default:
		return nil, spec.NewUnsupportedPredicateError(backendName, node.Field, node.Op)
	}
}

func rangeQuery(field, bound string, value interface{}) Query {
	return Query{"range": map[string]interface{}{
		field: map[string]interface{}{bound: value},
	}}
}

// wildcardPattern converts a SQL LIKE pattern into the search wildcard
// syntax: '%' becomes '*' and '_' becomes '?'.
func wildcardPattern(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteRune('*')
		case '_':
			b.WriteRune('?')
		case '*', '?', '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SortClauses renders a sort chain as search sort clauses. When the chain is
// empty the defaultField (ascending) keeps pagination deterministic.
func SortClauses[T any](chain spec.SortChain[T], defaultField string) []interface{} {
	if len(chain) == 0 {
		return []interface{}{
			map[string]interface{}{defaultField: map[string]interface{}{"order": "asc"}},
		}
	}
	clauses := make([]interface{}, 0, len(chain))
	for _, key := range chain {
		order := "asc"
		if key.Desc {
			order = "desc"
		}
		clauses = append(clauses, map[string]interface{}{
			key.Field: map[string]interface{}{"order": order},
		})
	}
	return clauses
}
