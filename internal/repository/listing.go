package repository

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/query"
)

const defaultPageSize = 25

// MaxPageSize is the hard cap normalized() applies to every listing query.
// Callers that page through a full result set must request pages no larger
// than this, or a short page cannot be taken as end of data.
const MaxPageSize = 100

// ListOptions carries the client-controlled listing parameters shared by
// every resource: the advanced filter tree, the quick-search term, sorting,
// and pagination.
type ListOptions struct {
	Filters domain.FilterGroup
	Search  string
	Sort    domain.Sort
	Limit   int
	Offset  int
}

func (o ListOptions) normalized() ListOptions {
	if o.Limit <= 0 {
		o.Limit = defaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// listSpec describes how one table is queried by the shared listing builder.
type listSpec struct {
	table         string
	selectColumns string
	filterFields  query.Fields
	searchColumns []string
	defaultOrder  string
}

// buildListSQL assembles the scoped, filtered, searched, ordered, paginated
// SELECT for one listing. Predicate order is: tenant isolation first, then
// the compiled advanced-filter tree, then quick search, all AND-combined.
// The compiled SQL is a pure function of scope and options, so applying the
// same options twice yields the same statement.
func buildListSQL(spec listSpec, scope auth.Scope, opts ListOptions) (string, []any, []domain.FilterCondition, error) {
	if scope.IsZero() {
		return "", nil, nil, fmt.Errorf("list %s: no tenant scope resolved", spec.table)
	}

	opts = opts.normalized()
	b := query.NewBuilder()
	var conditions []string

	if tenantID, ok := scope.TenantID(); ok {
		conditions = append(conditions, "tenant_id = "+b.Bind(tenantID))
	}

	compiled := query.CompileGroup(b, spec.filterFields, opts.Filters)
	if compiled.SQL != "" {
		conditions = append(conditions, "("+compiled.SQL+")")
	}

	if search := query.QuickSearch(b, opts.Search, spec.searchColumns); search != "" {
		conditions = append(conditions, "("+search+")")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(spec.selectColumns)
	sb.WriteString(", COUNT(*) OVER() AS total_count FROM ")
	sb.WriteString(spec.table)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(query.OrderBy(spec.filterFields, opts.Sort, spec.defaultOrder))
	sb.WriteString(" LIMIT ")
	sb.WriteString(b.Bind(opts.Limit))
	sb.WriteString(" OFFSET ")
	sb.WriteString(b.Bind(opts.Offset))

	return sb.String(), b.Args(), compiled.Dropped, nil
}

// logDropped surfaces filter conditions the compiler refused, so a filter
// that silently failed to apply is at least visible in the logs.
func logDropped(table string, dropped []domain.FilterCondition) {
	for _, cond := range dropped {
		log.Warn().
			Str("table", table).
			Str("field", cond.Field).
			Str("operator", string(cond.Operator)).
			Msg("dropped filter condition")
	}
}

// scopeCondition renders the tenant-isolation predicate for non-list queries.
// It returns "" only for the explicit system scope.
func scopeCondition(b *query.Builder, scope auth.Scope) (string, error) {
	if scope.IsZero() {
		return "", fmt.Errorf("no tenant scope resolved")
	}
	if tenantID, ok := scope.TenantID(); ok {
		return " AND tenant_id = " + b.Bind(tenantID), nil
	}
	return "", nil
}
