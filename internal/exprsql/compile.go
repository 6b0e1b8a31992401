// Package exprsql compiles expr predicate trees to parameterized SQL for
// the SQLite-backed statement store.
//
// The statements collection is addressed through the row alias "d". Paths
// naming a native column compile to a plain column comparison; every other
// path is a JSON path into the stored document and compiles to
// json_extract(d.doc, ...). A "[]" path segment compiles to an EXISTS
// subquery over json_each, one nesting level per segment, so
// "references[].context.contextActivities.parent[].id" matches any parent
// activity of any materialized reference.
//
// All values are parameterized (never interpolated). Output is
// deterministic for a given tree, which the golden tests rely on.
package exprsql

import (
	"fmt"
	"strings"

	"github.com/stanza-lrs/stanza/internal/expr"
)

// DocAlias is the row alias compiled fragments address. Queries embedding a
// compiled fragment must select `FROM statements AS d` (or equivalent).
const DocAlias = "d"

// columnRefs maps path roots that live as native columns on the statements
// collection rather than inside the document JSON.
var columnRefs = map[string]string{
	"seq":          DocAlias + ".seq",
	"stored_at":    DocAlias + ".stored_at",
	"voided":       DocAlias + ".voided",
	"user_id":      DocAlias + ".user_id",
	"statement_id": DocAlias + ".statement_id",
}

// Compile converts a predicate tree to a SQL WHERE fragment with bound
// parameters. A nil predicate compiles to "1 = 1" (match everything).
func Compile(p expr.Predicate) (string, []any, error) {
	c := &compiler{}
	return c.compilePredicate(p)
}

type compiler struct {
	aliasN int
}

func (c *compiler) compilePredicate(p expr.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	switch pred := p.(type) {
	case expr.Equals:
		return c.comparison(pred.Path, "=", pred.Value)
	case *expr.Equals:
		return c.comparison(pred.Path, "=", pred.Value)
	case expr.GreaterThan:
		return c.comparison(pred.Path, ">", pred.Value)
	case *expr.GreaterThan:
		return c.comparison(pred.Path, ">", pred.Value)
	case expr.GreaterOrEqual:
		return c.comparison(pred.Path, ">=", pred.Value)
	case *expr.GreaterOrEqual:
		return c.comparison(pred.Path, ">=", pred.Value)
	case expr.LessThan:
		return c.comparison(pred.Path, "<", pred.Value)
	case *expr.LessThan:
		return c.comparison(pred.Path, "<", pred.Value)
	case expr.LessOrEqual:
		return c.comparison(pred.Path, "<=", pred.Value)
	case *expr.LessOrEqual:
		return c.comparison(pred.Path, "<=", pred.Value)
	case expr.And:
		return c.compileGroup(pred.Predicates, " AND ", "1 = 1")
	case *expr.And:
		return c.compileGroup(pred.Predicates, " AND ", "1 = 1")
	case expr.Or:
		return c.compileGroup(pred.Predicates, " OR ", "1 = 0")
	case *expr.Or:
		return c.compileGroup(pred.Predicates, " OR ", "1 = 0")
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileGroup compiles And/Or members, parenthesizing composite members so
// AND/OR precedence cannot leak between nesting levels.
func (c *compiler) compileGroup(members []expr.Predicate, sep, empty string) (string, []any, error) {
	if len(members) == 0 {
		return empty, nil, nil
	}

	var sqlParts []string
	var allParams []any

	for _, member := range members {
		sql, params, err := c.compilePredicate(member)
		if err != nil {
			return "", nil, err
		}
		if isComposite(member) {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, sep), allParams, nil
}

func isComposite(p expr.Predicate) bool {
	switch p.(type) {
	case expr.And, *expr.And, expr.Or, *expr.Or:
		return true
	default:
		return false
	}
}

// comparison compiles a single path comparison. Exactly one parameter is
// emitted per comparison, so parameter order always follows tree order.
func (c *compiler) comparison(path, op string, value any) (string, []any, error) {
	if path == "" {
		return "", nil, fmt.Errorf("empty predicate path")
	}
	if strings.ContainsAny(path, "'\"`;") {
		return "", nil, fmt.Errorf("invalid predicate path %q", path)
	}

	if col, ok := columnRefs[path]; ok {
		return fmt.Sprintf("%s %s ?", col, op), []any{value}, nil
	}

	sql, err := c.jsonComparison(DocAlias+".doc", path, op)
	if err != nil {
		return "", nil, err
	}
	return sql, []any{value}, nil
}

// jsonComparison builds the fragment for a JSON document path. Each "[]"
// segment peels one json_each level off the front of the path.
func (c *compiler) jsonComparison(src, path, op string) (string, error) {
	i := strings.Index(path, "[]")
	if i < 0 {
		return fmt.Sprintf("json_extract(%s, '$.%s') %s ?", src, path, op), nil
	}

	prefix := path[:i]
	if prefix == "" {
		return "", fmt.Errorf("predicate path %q starts with array segment", path)
	}
	rest := strings.TrimPrefix(path[i+2:], ".")

	c.aliasN++
	alias := fmt.Sprintf("j%d", c.aliasN)

	var inner string
	var err error
	if rest == "" {
		// Compare the array element itself.
		inner = fmt.Sprintf("%s.value %s ?", alias, op)
	} else {
		inner, err = c.jsonComparison(alias+".value", rest, op)
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s, '$.%s') AS %s WHERE %s)",
		src, prefix, alias, inner), nil
}
