package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civica/electoral/internal/domain"
)

const tenantColumns = "id, slug, name, created_at, updated_at"

// tenantRepository implements TenantRepository over Postgres.
type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository creates a new tenant repository.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

// Create inserts a tenant.
func (r *tenantRepository) Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenants (id, slug, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		tenant.ID, tenant.Slug, tenant.Name, tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenant, nil
}

// GetByID retrieves a tenant by ID.
func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	var t domain.Tenant
	row := r.pool.QueryRow(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE id = $1", id)
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// GetBySlug retrieves a tenant by its request-resolution slug.
func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	var t domain.Tenant
	row := r.pool.QueryRow(ctx, "SELECT "+tenantColumns+" FROM tenants WHERE slug = $1", slug)
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Tenant{}, fmt.Errorf("failed to get tenant by slug: %w", err)
	}
	return t, nil
}

// List retrieves all tenants.
func (r *tenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+tenantColumns+" FROM tenants ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// Update updates a tenant's name.
func (r *tenantRepository) Update(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tenants SET name = $1, updated_at = $2 WHERE id = $3`,
		tenant.Name, tenant.UpdatedAt, tenant.ID,
	)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("failed to update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Tenant{}, fmt.Errorf("tenant %s not found", tenant.ID)
	}
	return tenant, nil
}

// Delete removes a tenant.
func (r *tenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM tenants WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}
