// Package sqlspec translates predicate trees into SQL WHERE fragments and
// executes specification queries against relational stores. Combinator
// semantics are mapped structurally; the translator never re-tests entities.
package sqlspec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nimburion/querykit/pkg/spec"
)

// Dialect selects the placeholder style of the target database.
type Dialect string

// Supported dialects
const (
	// DialectPostgres uses $1, $2, ... placeholders (lib/pq)
	DialectPostgres Dialect = "postgres"
	// DialectMySQL uses ? placeholders (go-sql-driver/mysql)
	DialectMySQL Dialect = "mysql"
)

// Filter is a translated predicate tree: a WHERE fragment plus its ordered
// arguments. An empty Where means the filter matches everything.
type Filter struct {
	Where string
	Args  []interface{}
}

// identifierPattern restricts field names to plain (optionally qualified)
// SQL identifiers, since they are interpolated into the statement text.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Translator converts predicate trees into SQL filters for one dialect.
type Translator struct {
	dialect Dialect
}

// NewTranslator creates a translator for the given dialect.
func NewTranslator(dialect Dialect) *Translator {
	return &Translator{dialect: dialect}
}

// Dialect returns the translator's placeholder dialect.
func (t *Translator) Dialect() Dialect {
	return t.dialect
}

// Translate maps a predicate tree to a WHERE fragment with ordered
// arguments. A nil node yields a match-all filter. Opaque leaves are
// rejected with an UnsupportedPredicateError.
func (t *Translator) Translate(node *spec.Node) (*Filter, error) {
	if node == nil {
		return &Filter{}, nil
	}
	w := &sqlWalker{dialect: t.dialect}
	where, err := w.walk(node)
	if err != nil {
		return nil, err
	}
	return &Filter{Where: where, Args: w.args}, nil
}

type sqlWalker struct {
	dialect Dialect
	args    []interface{}
}

func (w *sqlWalker) placeholder(value interface{}) string {
	w.args = append(w.args, value)
	if w.dialect == DialectMySQL {
		return "?"
	}
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *sqlWalker) walk(node *spec.Node) (string, error) {
	switch node.Kind {
	case spec.KindAnd:
		left, err := w.walk(node.Left)
		if err != nil {
			return "", err
		}
		right, err := w.walk(node.Right)
		if err != nil {
			return "", err
		}
		return "(" + left + " AND " + right + ")", nil
	case spec.KindOr:
		left, err := w.walk(node.Left)
		if err != nil {
			return "", err
		}
		right, err := w.walk(node.Right)
		if err != nil {
			return "", err
		}
		return "(" + left + " OR " + right + ")", nil
	case spec.KindNot:
		inner, err := w.walk(node.Left)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case spec.KindLeaf:
		return w.leaf(node)
	default:
		return "", fmt.Errorf("unknown predicate node kind %d", node.Kind)
	}
}

func (w *sqlWalker) leaf(node *spec.Node) (string, error) {
	if node.Opaque {
		return "", spec.NewUnsupportedPredicateError(string(w.dialect), node.Name, "")
	}
	if !identifierPattern.MatchString(node.Field) {
		return "", fmt.Errorf("invalid field name %q in predicate", node.Field)
	}

	switch node.Op {
	case spec.OpEq:
		return node.Field + " = " + w.placeholder(node.Value), nil
	case spec.OpNotEq:
		return node.Field + " <> " + w.placeholder(node.Value), nil
	case spec.OpGt:
		return node.Field + " > " + w.placeholder(node.Value), nil
	case spec.OpGte:
		return node.Field + " >= " + w.placeholder(node.Value), nil
	case spec.OpLt:
		return node.Field + " < " + w.placeholder(node.Value), nil
	case spec.OpLte:
		return node.Field + " <= " + w.placeholder(node.Value), nil
	case spec.OpLike:
		return node.Field + " LIKE " + w.placeholder(node.Value), nil
	case spec.OpIsNull:
		return node.Field + " IS NULL", nil
	case spec.OpIn:
		values, ok := node.Value.([]interface{})
		if !ok {
			return "", fmt.Errorf("in predicate on field %q holds %T, want []interface{}", node.Field, node.Value)
		}
		// An empty IN list matches nothing.
		if len(values) == 0 {
			return "(1 = 0)", nil
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = w.placeholder(v)
		}
		return node.Field + " IN (" + strings.Join(placeholders, ", ") + ")", nil
	default:
		return "", spec.NewUnsupportedPredicateError(string(w.dialect), node.Field, node.Op)
	}
}

// OrderBy renders a sort chain as an ORDER BY clause. When the chain is
// empty the defaultField (ascending) keeps pagination deterministic.
func OrderBy[T any](chain spec.SortChain[T], defaultField string) (string, error) {
	if len(chain) == 0 {
		if !identifierPattern.MatchString(defaultField) {
			return "", fmt.Errorf("invalid default order field %q", defaultField)
		}
		return "ORDER BY " + defaultField + " ASC", nil
	}

	parts := make([]string, 0, len(chain))
	for _, key := range chain {
		if !identifierPattern.MatchString(key.Field) {
			return "", fmt.Errorf("invalid sort field %q", key.Field)
		}
		direction := "ASC"
		if key.Desc {
			direction = "DESC"
		}
		parts = append(parts, key.Field+" "+direction)
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}
