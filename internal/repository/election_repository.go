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

const electionColumns = "id, tenant_id, name, description, status, starts_at, ends_at, created_at, updated_at"

var electionListSpec = listSpec{
	table:         "elections",
	selectColumns: electionColumns,
	filterFields:  query.Columns("name", "description", "status", "starts_at", "ends_at", "created_at"),
	searchColumns: []string{"name", "description"},
	defaultOrder:  "created_at",
}

// electionRepository implements ElectionRepository over Postgres.
type electionRepository struct {
	pool *pgxpool.Pool
}

// NewElectionRepository creates a new election repository.
func NewElectionRepository(pool *pgxpool.Pool) ElectionRepository {
	return &electionRepository{pool: pool}
}

// Create inserts an election, stamping its tenant from the scope.
func (r *electionRepository) Create(ctx context.Context, scope auth.Scope, election domain.Election) (domain.Election, error) {
	tenantID, err := scope.StampTenant(election.TenantID)
	if err != nil {
		return domain.Election{}, fmt.Errorf("failed to create election: %w", err)
	}
	election.TenantID = tenantID

	_, err = r.pool.Exec(ctx,
		`INSERT INTO elections (id, tenant_id, name, description, status, starts_at, ends_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		election.ID, election.TenantID, election.Name, election.Description, election.Status,
		election.StartsAt, election.EndsAt, election.CreatedAt, election.UpdatedAt,
	)
	if err != nil {
		return domain.Election{}, fmt.Errorf("failed to create election: %w", err)
	}

	return election, nil
}

// GetByID retrieves an election visible within the scope.
func (r *electionRepository) GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Election, error) {
	b := query.NewBuilder()
	sql := "SELECT " + electionColumns + " FROM elections WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Election{}, fmt.Errorf("failed to get election: %w", err)
	}
	sql += scoped

	var e domain.Election
	row := r.pool.QueryRow(ctx, sql, b.Args()...)
	if err := row.Scan(&e.ID, &e.TenantID, &e.Name, &e.Description, &e.Status,
		&e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return domain.Election{}, fmt.Errorf("failed to get election: %w", err)
	}
	return e, nil
}

// List retrieves elections within the scope, filtered and paginated.
func (r *electionRepository) List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Election, int, error) {
	sql, args, dropped, err := buildListSQL(electionListSpec, scope, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list elections: %w", err)
	}
	logDropped(electionListSpec.table, dropped)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	var elections []domain.Election
	totalCount := 0
	for rows.Next() {
		var e domain.Election
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.Description, &e.Status,
			&e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list elections: %w", err)
	}

	return elections, totalCount, nil
}

// Update persists an election's mutable fields. The tenant id is never
// updated; the scope predicate keeps cross-tenant writes out.
func (r *electionRepository) Update(ctx context.Context, scope auth.Scope, election domain.Election) (domain.Election, error) {
	b := query.NewBuilder()
	sql := fmt.Sprintf(
		`UPDATE elections SET name = %s, description = %s, status = %s, starts_at = %s, ends_at = %s, updated_at = %s WHERE id = %s`,
		b.Bind(election.Name), b.Bind(election.Description), b.Bind(election.Status),
		b.Bind(election.StartsAt), b.Bind(election.EndsAt), b.Bind(election.UpdatedAt), b.Bind(election.ID),
	)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Election{}, fmt.Errorf("failed to update election: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return domain.Election{}, fmt.Errorf("failed to update election: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Election{}, fmt.Errorf("election %s not found in scope", election.ID)
	}

	return election, nil
}

// Delete removes an election visible within the scope.
func (r *electionRepository) Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	b := query.NewBuilder()
	sql := "DELETE FROM elections WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("election %s not found in scope", id)
	}
	return nil
}
