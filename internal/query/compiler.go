package query

import (
	"fmt"
	"strings"

	"github.com/civica/electoral/internal/domain"
)

// CompileResult is the outcome of compiling one filter tree. Conditions that
// named an unknown field, an unknown operator, or carried malformed arguments
// are not errors; they are collected in Dropped so callers can log them
// instead of losing them invisibly.
type CompileResult struct {
	SQL     string
	Dropped []domain.FilterCondition
}

// CompileGroup compiles a filter tree into a parameterized SQL predicate,
// binding values through the shared builder. The result is a pure function of
// the group and allow-list: the same inputs always produce the same SQL, and
// bad client input degrades to fewer predicates, never to an error.
func CompileGroup(b *Builder, fields Fields, group domain.FilterGroup) CompileResult {
	c := &compiler{b: b, fields: fields}
	sql := c.group(group.Normalized())
	return CompileResult{SQL: sql, Dropped: c.dropped}
}

type compiler struct {
	b       *Builder
	fields  Fields
	dropped []domain.FilterCondition
}

func (c *compiler) group(group domain.FilterGroup) string {
	var parts []string

	for _, cond := range group.Conditions {
		if sql, ok := c.condition(cond); ok {
			parts = append(parts, sql)
		} else {
			c.dropped = append(c.dropped, cond)
		}
	}

	for _, sub := range group.Groups {
		if sql := c.group(sub); sql != "" {
			parts = append(parts, "("+sql+")")
		}
	}

	// An empty group contributes nothing: vacuous under AND, and an OR
	// group with zero members applies no predicate rather than excluding
	// every row.
	if len(parts) == 0 {
		return ""
	}

	separator := " AND "
	if group.Operator == domain.GroupOpOr {
		separator = " OR "
	}
	return strings.Join(parts, separator)
}

func (c *compiler) condition(cond domain.FilterCondition) (string, bool) {
	column, ok := resolveColumn(c.fields, cond.Field)
	if !ok {
		return "", false
	}

	switch cond.Operator {
	case domain.FilterOpEquals:
		if !isScalar(cond.Value) {
			return "", false
		}
		return fmt.Sprintf("%s = %s", column, c.b.Bind(cond.Value)), true

	case domain.FilterOpNotEquals:
		if !isScalar(cond.Value) {
			return "", false
		}
		return fmt.Sprintf("%s <> %s", column, c.b.Bind(cond.Value)), true

	case domain.FilterOpContains:
		return c.pattern(column, cond.Value, "ILIKE", "%", "%")

	case domain.FilterOpNotContains:
		return c.pattern(column, cond.Value, "NOT ILIKE", "%", "%")

	case domain.FilterOpStartsWith:
		return c.pattern(column, cond.Value, "ILIKE", "", "%")

	case domain.FilterOpEndsWith:
		return c.pattern(column, cond.Value, "ILIKE", "%", "")

	case domain.FilterOpIsEmpty:
		return fmt.Sprintf("(%s IS NULL OR %s::text = '')", column, column), true

	case domain.FilterOpIsNotEmpty:
		return fmt.Sprintf("(%s IS NOT NULL AND %s::text <> '')", column, column), true

	case domain.FilterOpGreaterThan:
		return c.comparison(column, ">", cond.Value)

	case domain.FilterOpLessThan:
		return c.comparison(column, "<", cond.Value)

	case domain.FilterOpGreaterOrEqual:
		return c.comparison(column, ">=", cond.Value)

	case domain.FilterOpLessOrEqual:
		return c.comparison(column, "<=", cond.Value)

	case domain.FilterOpBetween:
		bounds, ok := scalarSlice(cond.Value)
		if !ok || len(bounds) != 2 {
			return "", false
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", column, c.b.Bind(bounds[0]), c.b.Bind(bounds[1])), true

	case domain.FilterOpIn:
		return c.membership(column, "IN", cond.Value)

	case domain.FilterOpNotIn:
		return c.membership(column, "NOT IN", cond.Value)

	default:
		// Unknown operators are dropped so forward-incompatible client
		// payloads degrade instead of breaking the page.
		return "", false
	}
}

func (c *compiler) comparison(column, op string, value any) (string, bool) {
	if !isScalar(value) {
		return "", false
	}
	return fmt.Sprintf("%s %s %s", column, op, c.b.Bind(value)), true
}

func (c *compiler) pattern(column string, value any, op, prefix, suffix string) (string, bool) {
	term, ok := scalarString(value)
	if !ok {
		return "", false
	}
	placeholder := c.b.Bind(prefix + escapeLike(term) + suffix)
	return fmt.Sprintf(`%s %s %s ESCAPE '\'`, column, op, placeholder), true
}

func (c *compiler) membership(column, op string, value any) (string, bool) {
	members, ok := scalarSlice(value)
	if !ok || len(members) == 0 {
		return "", false
	}
	placeholders := make([]string, len(members))
	for i, member := range members {
		placeholders[i] = c.b.Bind(member)
	}
	return fmt.Sprintf("%s %s (%s)", column, op, strings.Join(placeholders, ", ")), true
}

// QuickSearch compiles the top-level search parameter as a case-insensitive
// substring match OR-ed across the given columns. It is independent of the
// advanced filter tree; callers AND the two together.
func QuickSearch(b *Builder, term string, columns []string) string {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return ""
	}

	placeholder := b.Bind("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column, placeholder)
	}
	return strings.Join(parts, " OR ")
}

// OrderBy resolves a sort request against the allow-list, falling back to the
// given column when the requested field is unknown.
func OrderBy(fields Fields, sort domain.Sort, fallback string) string {
	column, ok := resolveColumn(fields, sort.Field)
	if !ok {
		column = fallback
	}
	direction := "ASC"
	if sort.Direction == domain.SortDirectionDesc {
		direction = "DESC"
	}
	return column + " " + direction
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func isScalar(value any) bool {
	switch value.(type) {
	case string, float64, float32, int, int32, int64, bool:
		return true
	default:
		return false
	}
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64, float32, int, int32, int64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func scalarSlice(value any) ([]any, bool) {
	raw, ok := value.([]any)
	if !ok {
		return nil, false
	}
	for _, member := range raw {
		if !isScalar(member) {
			return nil, false
		}
	}
	return raw, true
}
