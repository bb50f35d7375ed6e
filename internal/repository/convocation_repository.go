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

const convocationColumns = "id, tenant_id, election_id, title, body, status, nominations_open_at, nominations_close_at, published_at, created_at, updated_at"

var convocationListSpec = listSpec{
	table:         "convocations",
	selectColumns: convocationColumns,
	filterFields: query.Fields{
		"title":                "title",
		"status":               "status",
		"election_id":          "election_id",
		"nominations_open_at":  "nominations_open_at",
		"nominations_close_at": "nominations_close_at",
		"published_at":         "published_at",
		"created_at":           "created_at",
	},
	searchColumns: []string{"title", "body"},
	defaultOrder:  "created_at",
}

// convocationRepository implements ConvocationRepository over Postgres.
type convocationRepository struct {
	pool *pgxpool.Pool
}

// NewConvocationRepository creates a new convocation repository.
func NewConvocationRepository(pool *pgxpool.Pool) ConvocationRepository {
	return &convocationRepository{pool: pool}
}

// Create inserts a convocation, stamping its tenant from the scope.
func (r *convocationRepository) Create(ctx context.Context, scope auth.Scope, convocation domain.Convocation) (domain.Convocation, error) {
	tenantID, err := scope.StampTenant(convocation.TenantID)
	if err != nil {
		return domain.Convocation{}, fmt.Errorf("failed to create convocation: %w", err)
	}
	convocation.TenantID = tenantID

	_, err = r.pool.Exec(ctx,
		`INSERT INTO convocations (id, tenant_id, election_id, title, body, status, nominations_open_at, nominations_close_at, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		convocation.ID, convocation.TenantID, convocation.ElectionID, convocation.Title,
		convocation.Body, convocation.Status, convocation.NominationsOpenAt,
		convocation.NominationsCloseAt, convocation.PublishedAt,
		convocation.CreatedAt, convocation.UpdatedAt,
	)
	if err != nil {
		return domain.Convocation{}, fmt.Errorf("failed to create convocation: %w", err)
	}

	return convocation, nil
}

// GetByID retrieves a convocation visible within the scope.
func (r *convocationRepository) GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Convocation, error) {
	b := query.NewBuilder()
	sql := "SELECT " + convocationColumns + " FROM convocations WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Convocation{}, fmt.Errorf("failed to get convocation: %w", err)
	}
	sql += scoped

	var c domain.Convocation
	row := r.pool.QueryRow(ctx, sql, b.Args()...)
	if err := row.Scan(&c.ID, &c.TenantID, &c.ElectionID, &c.Title, &c.Body, &c.Status,
		&c.NominationsOpenAt, &c.NominationsCloseAt, &c.PublishedAt,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Convocation{}, fmt.Errorf("failed to get convocation: %w", err)
	}
	return c, nil
}

// List retrieves convocations within the scope, filtered and paginated.
func (r *convocationRepository) List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Convocation, int, error) {
	sql, args, dropped, err := buildListSQL(convocationListSpec, scope, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list convocations: %w", err)
	}
	logDropped(convocationListSpec.table, dropped)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list convocations: %w", err)
	}
	defer rows.Close()

	var convocations []domain.Convocation
	totalCount := 0
	for rows.Next() {
		var c domain.Convocation
		if err := rows.Scan(&c.ID, &c.TenantID, &c.ElectionID, &c.Title, &c.Body, &c.Status,
			&c.NominationsOpenAt, &c.NominationsCloseAt, &c.PublishedAt,
			&c.CreatedAt, &c.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan convocation: %w", err)
		}
		convocations = append(convocations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list convocations: %w", err)
	}

	return convocations, totalCount, nil
}

// Update persists a convocation's mutable fields within the scope.
func (r *convocationRepository) Update(ctx context.Context, scope auth.Scope, convocation domain.Convocation) (domain.Convocation, error) {
	b := query.NewBuilder()
	sql := fmt.Sprintf(
		`UPDATE convocations SET title = %s, body = %s, status = %s, nominations_open_at = %s, nominations_close_at = %s, published_at = %s, updated_at = %s WHERE id = %s`,
		b.Bind(convocation.Title), b.Bind(convocation.Body), b.Bind(convocation.Status),
		b.Bind(convocation.NominationsOpenAt), b.Bind(convocation.NominationsCloseAt),
		b.Bind(convocation.PublishedAt), b.Bind(convocation.UpdatedAt), b.Bind(convocation.ID),
	)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Convocation{}, fmt.Errorf("failed to update convocation: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return domain.Convocation{}, fmt.Errorf("failed to update convocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Convocation{}, fmt.Errorf("convocation %s not found in scope", convocation.ID)
	}

	return convocation, nil
}

// Delete removes a convocation visible within the scope.
func (r *convocationRepository) Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	b := query.NewBuilder()
	sql := "DELETE FROM convocations WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return fmt.Errorf("failed to delete convocation: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete convocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("convocation %s not found in scope", id)
	}
	return nil
}
