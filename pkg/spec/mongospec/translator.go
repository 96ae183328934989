// Package mongospec translates predicate trees into MongoDB filter documents
// and executes specification queries against collections.
package mongospec

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimburion/querykit/pkg/spec"
)

const backendName = "mongodb"

// Translate maps a predicate tree to a MongoDB filter document. A nil node
// yields the match-all filter. Opaque leaves are rejected with an
// UnsupportedPredicateError.
func Translate(node *spec.Node) (bson.M, error) {
	if node == nil {
		return bson.M{}, nil
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
		return bson.M{"$and": bson.A{left, right}}, nil
	case spec.KindOr:
		left, err := Translate(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := Translate(node.Right)
		if err != nil {
			return nil, err
		}
		return bson.M{"$or": bson.A{left, right}}, nil
	case spec.KindNot:
		// $nor over a single filter selects exactly the complement.
		inner, err := Translate(node.Left)
		if err != nil {
			return nil, err
		}
		return bson.M{"$nor": bson.A{inner}}, nil
	case spec.KindLeaf:
		return translateLeaf(node)
	default:
		return nil, fmt.Errorf("unknown predicate node kind %d", node.Kind)
	}
}

func translateLeaf(node *spec.Node) (bson.M, error) {
	if node.Opaque {
		return nil, spec.NewUnsupportedPredicateError(backendName, node.Name, "")
	}

	switch node.Op {
	case spec.OpEq:
		return bson.M{node.Field: bson.M{"$eq": node.Value}}, nil
	case spec.OpNotEq:
		return bson.M{node.Field: bson.M{"$ne": node.Value}}, nil
	case spec.OpGt:
		return bson.M{node.Field: bson.M{"$gt": node.Value}}, nil
	case spec.OpGte:
		return bson.M{node.Field: bson.M{"$gte": node.Value}}, nil
	case spec.OpLt:
		return bson.M{node.Field: bson.M{"$lt": node.Value}}, nil
	case spec.OpLte:
		return bson.M{node.Field: bson.M{"$lte": node.Value}}, nil
	case spec.OpIn:
		values, ok := node.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("in predicate on field %q holds %T, want []interface{}", node.Field, node.Value)
		}
		return bson.M{node.Field: bson.M{"$in": bson.A(values)}}, nil
	case spec.OpLike:
		pattern, ok := node.Value.(string)
		if !ok {
			return nil, fmt.Errorf("like predicate on field %q holds %T, want string", node.Field, node.Value)
		}
		return bson.M{node.Field: primitive.Regex{Pattern: likePattern(pattern), Options: "s"}}, nil
	case spec.OpIsNull:
		// Matches both explicit null and an absent field.
		return bson.M{node.Field: nil}, nil
	default:
		return nil, spec.NewUnsupportedPredicateError(backendName, node.Field, node.Op)
	}
}

// likePattern converts a SQL LIKE pattern into an anchored regular
// expression: '%' becomes '.*' and '_' becomes '.'.
func likePattern(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// SortDocument renders a sort chain as a MongoDB sort document. When the
// chain is empty the defaultField (ascending) keeps pagination deterministic.
func SortDocument[T any](chain spec.SortChain[T], defaultField string) bson.D {
	if len(chain) == 0 {
		return bson.D{{Key: defaultField, Value: 1}}
	}
	doc := make(bson.D, 0, len(chain))
	for _, key := range chain {
		direction := 1
		if key.Desc {
			direction = -1
		}
		doc = append(doc, bson.E{Key: key.Field, Value: direction})
	}
	return doc
}
