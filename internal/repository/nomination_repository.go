package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/query"
)

const nominationColumns = "id, tenant_id, election_id, applicant_name, email, status, review_notes, submitted_at, resolved_at, answers, created_at, updated_at"

var nominationListSpec = listSpec{
	table:         "nominations",
	selectColumns: nominationColumns,
	filterFields: query.Fields{
		"applicant_name": "applicant_name",
		"email":          "email",
		"status":         "status",
		"election_id":    "election_id",
		"submitted_at":   "submitted_at",
		"resolved_at":    "resolved_at",
		"created_at":     "created_at",
	},
	searchColumns: []string{"applicant_name", "email"},
	defaultOrder:  "created_at",
}

// nominationRepository implements NominationRepository over Postgres.
type nominationRepository struct {
	pool *pgxpool.Pool
}

// NewNominationRepository creates a new nomination repository.
func NewNominationRepository(pool *pgxpool.Pool) NominationRepository {
	return &nominationRepository{pool: pool}
}

// Create inserts a nomination, stamping its tenant from the scope.
func (r *nominationRepository) Create(ctx context.Context, scope auth.Scope, nomination domain.Nomination) (domain.Nomination, error) {
	tenantID, err := scope.StampTenant(nomination.TenantID)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to create nomination: %w", err)
	}
	nomination.TenantID = tenantID

	answersJSON, err := marshalAnswers(nomination.Answers)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to marshal nomination answers: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO nominations (id, tenant_id, election_id, applicant_name, email, status, review_notes, submitted_at, resolved_at, answers, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		nomination.ID, nomination.TenantID, nomination.ElectionID, nomination.ApplicantName,
		nomination.Email, nomination.Status, nomination.ReviewNotes, nomination.SubmittedAt,
		nomination.ResolvedAt, answersJSON, nomination.CreatedAt, nomination.UpdatedAt,
	)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to create nomination: %w", err)
	}

	return nomination, nil
}

// GetByID retrieves a nomination visible within the scope.
func (r *nominationRepository) GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Nomination, error) {
	b := query.NewBuilder()
	sql := "SELECT " + nominationColumns + " FROM nominations WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to get nomination: %w", err)
	}
	sql += scoped

	row := r.pool.QueryRow(ctx, sql, b.Args()...)
	nomination, err := scanNomination(row)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to get nomination: %w", err)
	}
	return nomination, nil
}

// List retrieves nominations within the scope, filtered and paginated.
func (r *nominationRepository) List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Nomination, int, error) {
	sql, args, dropped, err := buildListSQL(nominationListSpec, scope, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list nominations: %w", err)
	}
	logDropped(nominationListSpec.table, dropped)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list nominations: %w", err)
	}
	defer rows.Close()

	var nominations []domain.Nomination
	totalCount := 0
	for rows.Next() {
		var n domain.Nomination
		var answersJSON []byte
		if err := rows.Scan(&n.ID, &n.TenantID, &n.ElectionID, &n.ApplicantName, &n.Email,
			&n.Status, &n.ReviewNotes, &n.SubmittedAt, &n.ResolvedAt, &answersJSON,
			&n.CreatedAt, &n.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan nomination: %w", err)
		}
		if err := json.Unmarshal(answersJSON, &n.Answers); err != nil {
			return nil, 0, fmt.Errorf("failed to decode answers for nomination %s: %w", n.ID, err)
		}
		nominations = append(nominations, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list nominations: %w", err)
	}

	return nominations, totalCount, nil
}

// Update persists a nomination's mutable fields within the scope.
func (r *nominationRepository) Update(ctx context.Context, scope auth.Scope, nomination domain.Nomination) (domain.Nomination, error) {
	answersJSON, err := marshalAnswers(nomination.Answers)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to marshal nomination answers: %w", err)
	}

	b := query.NewBuilder()
	sql := fmt.Sprintf(
		`UPDATE nominations SET applicant_name = %s, email = %s, status = %s, review_notes = %s, submitted_at = %s, resolved_at = %s, answers = %s, updated_at = %s WHERE id = %s`,
		b.Bind(nomination.ApplicantName), b.Bind(nomination.Email), b.Bind(nomination.Status),
		b.Bind(nomination.ReviewNotes), b.Bind(nomination.SubmittedAt), b.Bind(nomination.ResolvedAt),
		b.Bind(answersJSON), b.Bind(nomination.UpdatedAt), b.Bind(nomination.ID),
	)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to update nomination: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to update nomination: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Nomination{}, fmt.Errorf("nomination %s not found in scope", nomination.ID)
	}

	return nomination, nil
}

// Delete removes a nomination visible within the scope.
func (r *nominationRepository) Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	b := query.NewBuilder()
	sql := "DELETE FROM nominations WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return fmt.Errorf("failed to delete nomination: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete nomination: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("nomination %s not found in scope", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNomination(row rowScanner) (domain.Nomination, error) {
	var n domain.Nomination
	var answersJSON []byte
	if err := row.Scan(&n.ID, &n.TenantID, &n.ElectionID, &n.ApplicantName, &n.Email,
		&n.Status, &n.ReviewNotes, &n.SubmittedAt, &n.ResolvedAt, &answersJSON,
		&n.CreatedAt, &n.UpdatedAt); err != nil {
		return domain.Nomination{}, err
	}
	if err := json.Unmarshal(answersJSON, &n.Answers); err != nil {
		return domain.Nomination{}, fmt.Errorf("failed to decode answers for nomination %s: %w", n.ID, err)
	}
	return n, nil
}

func marshalAnswers(answers map[string]any) ([]byte, error) {
	if answers == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(answers)
}
