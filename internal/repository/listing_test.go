package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/query"
)

var testSpec = listSpec{
	table:         "elections",
	selectColumns: "id, tenant_id, name, status",
	filterFields:  query.Columns("name", "status", "created_at"),
	searchColumns: []string{"name", "description"},
	defaultOrder:  "created_at",
}

func TestBuildListSQLTenantScope(t *testing.T) {
	tenantID := uuid.New()
	scope, _ := auth.TenantScope(tenantID)

	sql, args, dropped, err := buildListSQL(testSpec, scope, ListOptions{})
	if err != nil {
		t.Fatalf("buildListSQL failed: %v", err)
	}
	if len(dropped) != 0 {
		t.Errorf("dropped = %v, want none", dropped)
	}

	want := "SELECT id, tenant_id, name, status, COUNT(*) OVER() AS total_count FROM elections" +
		" WHERE tenant_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}
	if len(args) != 3 || args[0] != tenantID || args[1] != defaultPageSize || args[2] != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildListSQLComposition(t *testing.T) {
	tenantID := uuid.New()
	scope, _ := auth.TenantScope(tenantID)

	opts := ListOptions{
		Filters: domain.FilterGroup{
			Operator: domain.GroupOpAnd,
			Conditions: []domain.FilterCondition{
				{Field: "status", Operator: domain.FilterOpEquals, Value: "open"},
			},
		},
		Search: "board",
		Sort:   domain.Sort{Field: "name", Direction: domain.SortDirectionDesc},
		Limit:  10,
		Offset: 20,
	}

	sql, args, _, err := buildListSQL(testSpec, scope, opts)
	if err != nil {
		t.Fatalf("buildListSQL failed: %v", err)
	}

	want := "SELECT id, tenant_id, name, status, COUNT(*) OVER() AS total_count FROM elections" +
		" WHERE tenant_id = $1 AND (status = $2) AND (name ILIKE $3 ESCAPE '\\' OR description ILIKE $3 ESCAPE '\\')" +
		" ORDER BY name DESC LIMIT $4 OFFSET $5"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}
	if len(args) != 5 {
		t.Fatalf("args = %v, want 5", args)
	}
	if args[0] != tenantID {
		t.Error("tenant predicate must bind first")
	}
	if args[1] != "open" || args[2] != "%board%" || args[3] != 10 || args[4] != 20 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildListSQLSystemScope(t *testing.T) {
	sql, args, _, err := buildListSQL(testSpec, auth.SystemScope(), ListOptions{})
	if err != nil {
		t.Fatalf("buildListSQL failed: %v", err)
	}
	if strings.Contains(sql, "tenant_id =") {
		t.Errorf("system scope must not constrain tenant: %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want limit and offset only", args)
	}
}

func TestBuildListSQLZeroScopeRejected(t *testing.T) {
	if _, _, _, err := buildListSQL(testSpec, auth.Scope{}, ListOptions{}); err == nil {
		t.Fatal("an unresolved scope must be an error, not an unfiltered query")
	}
}

func TestBuildListSQLReportsDropped(t *testing.T) {
	scope, _ := auth.TenantScope(uuid.New())
	opts := ListOptions{
		Filters: domain.FilterGroup{
			Operator: domain.GroupOpAnd,
			Conditions: []domain.FilterCondition{
				{Field: "not_a_column", Operator: domain.FilterOpEquals, Value: "x"},
				{Field: "status", Operator: domain.FilterOpEquals, Value: "open"},
			},
		},
	}

	sql, _, dropped, err := buildListSQL(testSpec, scope, opts)
	if err != nil {
		t.Fatalf("buildListSQL failed: %v", err)
	}
	if len(dropped) != 1 || dropped[0].Field != "not_a_column" {
		t.Errorf("dropped = %v, want the unknown field", dropped)
	}
	if !strings.Contains(sql, "status = $2") {
		t.Errorf("surviving condition missing: %q", sql)
	}
}

func TestBuildListSQLPaginationClamped(t *testing.T) {
	scope, _ := auth.TenantScope(uuid.New())

	_, args, _, err := buildListSQL(testSpec, scope, ListOptions{Limit: 100000, Offset: -5})
	if err != nil {
		t.Fatalf("buildListSQL failed: %v", err)
	}
	limit := args[len(args)-2]
	offset := args[len(args)-1]
	if limit != MaxPageSize {
		t.Errorf("limit = %v, want clamped to %d", limit, MaxPageSize)
	}
	if offset != 0 {
		t.Errorf("offset = %v, want clamped to 0", offset)
	}
}

func TestBuildListSQLUnknownSortFallsBack(t *testing.T) {
	scope, _ := auth.TenantScope(uuid.New())

	sql, _, _, err := buildListSQL(testSpec, scope, ListOptions{Sort: domain.Sort{Field: "evil; --"}})
	if err != nil {
		t.Fatalf("buildListSQL failed: %v", err)
	}
	if !strings.Contains(sql, "ORDER BY created_at ASC") {
		t.Errorf("sort did not fall back: %q", sql)
	}
}

func TestBuildListSQLDeterministic(t *testing.T) {
	scope, _ := auth.TenantScope(uuid.New())
	opts := ListOptions{
		Filters: domain.FilterGroup{
			Operator: domain.GroupOpOr,
			Conditions: []domain.FilterCondition{
				{Field: "name", Operator: domain.FilterOpContains, Value: "a"},
				{Field: "status", Operator: domain.FilterOpIn, Value: []any{"open", "closed"}},
			},
		},
		Search: "term",
	}

	first, _, _, err := buildListSQL(testSpec, scope, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, _, _, err := buildListSQL(testSpec, scope, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("not deterministic:\n%q\n%q", first, second)
	}
}
