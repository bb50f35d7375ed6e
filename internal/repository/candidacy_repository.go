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

const candidacyColumns = "id, tenant_id, election_id, nomination_id, candidate_name, list_name, position, status, status_reason, created_at, updated_at"

var candidacyListSpec = listSpec{
	table:         "candidacies",
	selectColumns: candidacyColumns,
	filterFields: query.Fields{
		"candidate_name": "candidate_name",
		"list_name":      "list_name",
		"position":       "position",
		"status":         "status",
		"election_id":    "election_id",
		"created_at":     "created_at",
	},
	searchColumns: []string{"candidate_name", "list_name"},
	defaultOrder:  "created_at",
}

// candidacyRepository implements CandidacyRepository over Postgres.
type candidacyRepository struct {
	pool *pgxpool.Pool
}

// NewCandidacyRepository creates a new candidacy repository.
func NewCandidacyRepository(pool *pgxpool.Pool) CandidacyRepository {
	return &candidacyRepository{pool: pool}
}

// Create inserts a candidacy, stamping its tenant from the scope.
func (r *candidacyRepository) Create(ctx context.Context, scope auth.Scope, candidacy domain.Candidacy) (domain.Candidacy, error) {
	tenantID, err := scope.StampTenant(candidacy.TenantID)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("failed to create candidacy: %w", err)
	}
	candidacy.TenantID = tenantID

	_, err = r.pool.Exec(ctx,
		`INSERT INTO candidacies (id, tenant_id, election_id, nomination_id, candidate_name, list_name, position, status, status_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		candidacy.ID, candidacy.TenantID, candidacy.ElectionID, candidacy.NominationID,
		candidacy.CandidateName, candidacy.ListName, candidacy.Position, candidacy.Status,
		candidacy.StatusReason, candidacy.CreatedAt, candidacy.UpdatedAt,
	)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("failed to create candidacy: %w", err)
	}

	return candidacy, nil
}

// GetByID retrieves a candidacy visible within the scope.
func (r *candidacyRepository) GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Candidacy, error) {
	b := query.NewBuilder()
	sql := "SELECT " + candidacyColumns + " FROM candidacies WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("failed to get candidacy: %w", err)
	}
	sql += scoped

	var c domain.Candidacy
	row := r.pool.QueryRow(ctx, sql, b.Args()...)
	if err := row.Scan(&c.ID, &c.TenantID, &c.ElectionID, &c.NominationID, &c.CandidateName,
		&c.ListName, &c.Position, &c.Status, &c.StatusReason, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Candidacy{}, fmt.Errorf("failed to get candidacy: %w", err)
	}
	return c, nil
}

// List retrieves candidacies within the scope, filtered and paginated.
func (r *candidacyRepository) List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Candidacy, int, error) {
	sql, args, dropped, err := buildListSQL(candidacyListSpec, scope, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidacies: %w", err)
	}
	logDropped(candidacyListSpec.table, dropped)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidacies: %w", err)
	}
	defer rows.Close()

	var candidacies []domain.Candidacy
	totalCount := 0
	for rows.Next() {
		var c domain.Candidacy
		if err := rows.Scan(&c.ID, &c.TenantID, &c.ElectionID, &c.NominationID, &c.CandidateName,
			&c.ListName, &c.Position, &c.Status, &c.StatusReason, &c.CreatedAt, &c.UpdatedAt,
			&totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan candidacy: %w", err)
		}
		candidacies = append(candidacies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list candidacies: %w", err)
	}

	return candidacies, totalCount, nil
}

// Update persists a candidacy's mutable fields within the scope.
func (r *candidacyRepository) Update(ctx context.Context, scope auth.Scope, candidacy domain.Candidacy) (domain.Candidacy, error) {
	b := query.NewBuilder()
	sql := fmt.Sprintf(
		`UPDATE candidacies SET candidate_name = %s, list_name = %s, position = %s, status = %s, status_reason = %s, updated_at = %s WHERE id = %s`,
		b.Bind(candidacy.CandidateName), b.Bind(candidacy.ListName), b.Bind(candidacy.Position),
		b.Bind(candidacy.Status), b.Bind(candidacy.StatusReason), b.Bind(candidacy.UpdatedAt),
		b.Bind(candidacy.ID),
	)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("failed to update candidacy: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return domain.Candidacy{}, fmt.Errorf("failed to update candidacy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Candidacy{}, fmt.Errorf("candidacy %s not found in scope", candidacy.ID)
	}

	return candidacy, nil
}

// Delete removes a candidacy visible within the scope.
func (r *candidacyRepository) Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	b := query.NewBuilder()
	sql := "DELETE FROM candidacies WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return fmt.Errorf("failed to delete candidacy: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete candidacy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("candidacy %s not found in scope", id)
	}
	return nil
}
