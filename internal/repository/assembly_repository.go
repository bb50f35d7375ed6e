package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/query"
)

const assemblyColumns = "id, tenant_id, title, agenda, status, scheduled_at, quorum_needed, attendee_count, started_at, concluded_at, created_at, updated_at"

var assemblyListSpec = listSpec{
	table:         "assemblies",
	selectColumns: assemblyColumns,
	filterFields:  query.Columns("title", "status", "scheduled_at", "quorum_needed", "attendee_count", "created_at"),
	searchColumns: []string{"title", "agenda"},
	defaultOrder:  "scheduled_at",
}

// assemblyRepository implements AssemblyRepository over Postgres.
type assemblyRepository struct {
	pool *pgxpool.Pool
}

// NewAssemblyRepository creates a new assembly repository.
func NewAssemblyRepository(pool *pgxpool.Pool) AssemblyRepository {
	return &assemblyRepository{pool: pool}
}

// Create inserts an assembly, stamping its tenant from the scope.
func (r *assemblyRepository) Create(ctx context.Context, scope auth.Scope, assembly domain.Assembly) (domain.Assembly, error) {
	tenantID, err := scope.StampTenant(assembly.TenantID)
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("failed to create assembly: %w", err)
	}
	assembly.TenantID = tenantID

	_, err = r.pool.Exec(ctx,
		`INSERT INTO assemblies (id, tenant_id, title, agenda, status, scheduled_at, quorum_needed, attendee_count, started_at, concluded_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		assembly.ID, assembly.TenantID, assembly.Title, assembly.Agenda, assembly.Status,
		assembly.ScheduledAt, assembly.QuorumNeeded, assembly.AttendeeCount,
		assembly.StartedAt, assembly.ConcludedAt, assembly.CreatedAt, assembly.UpdatedAt,
	)
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("failed to create assembly: %w", err)
	}

	return assembly, nil
}

// GetByID retrieves an assembly visible within the scope.
func (r *assemblyRepository) GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Assembly, error) {
	b := query.NewBuilder()
	sql := "SELECT " + assemblyColumns + " FROM assemblies WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("failed to get assembly: %w", err)
	}
	sql += scoped

	var a domain.Assembly
	row := r.pool.QueryRow(ctx, sql, b.Args()...)
	if err := row.Scan(&a.ID, &a.TenantID, &a.Title, &a.Agenda, &a.Status, &a.ScheduledAt,
		&a.QuorumNeeded, &a.AttendeeCount, &a.StartedAt, &a.ConcludedAt,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Assembly{}, fmt.Errorf("failed to get assembly: %w", err)
	}
	return a, nil
}

// List retrieves assemblies within the scope, filtered and paginated.
func (r *assemblyRepository) List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Assembly, int, error) {
	sql, args, dropped, err := buildListSQL(assemblyListSpec, scope, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assemblies: %w", err)
	}
	logDropped(assemblyListSpec.table, dropped)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assemblies: %w", err)
	}
	defer rows.Close()

	var assemblies []domain.Assembly
	totalCount := 0
	for rows.Next() {
		var a domain.Assembly
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Title, &a.Agenda, &a.Status, &a.ScheduledAt,
			&a.QuorumNeeded, &a.AttendeeCount, &a.StartedAt, &a.ConcludedAt,
			&a.CreatedAt, &a.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan assembly: %w", err)
		}
		assemblies = append(assemblies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list assemblies: %w", err)
	}

	return assemblies, totalCount, nil
}

// Update persists an assembly's mutable fields within the scope.
func (r *assemblyRepository) Update(ctx context.Context, scope auth.Scope, assembly domain.Assembly) (domain.Assembly, error) {
	b := query.NewBuilder()
	sql := fmt.Sprintf(
		`UPDATE assemblies SET title = %s, agenda = %s, status = %s, scheduled_at = %s, quorum_needed = %s, attendee_count = %s, started_at = %s, concluded_at = %s, updated_at = %s WHERE id = %s`,
		b.Bind(assembly.Title), b.Bind(assembly.Agenda), b.Bind(assembly.Status),
		b.Bind(assembly.ScheduledAt), b.Bind(assembly.QuorumNeeded), b.Bind(assembly.AttendeeCount),
		b.Bind(assembly.StartedAt), b.Bind(assembly.ConcludedAt), b.Bind(assembly.UpdatedAt),
		b.Bind(assembly.ID),
	)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("failed to update assembly: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("failed to update assembly: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Assembly{}, fmt.Errorf("assembly %s not found in scope", assembly.ID)
	}

	return assembly, nil
}

// Delete removes an assembly visible within the scope.
func (r *assemblyRepository) Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	b := query.NewBuilder()
	sql := "DELETE FROM assemblies WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return fmt.Errorf("failed to delete assembly: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete assembly: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assembly %s not found in scope", id)
	}
	return nil
}
