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

const (
	formTemplateColumns   = "id, tenant_id, name, fields, created_at, updated_at"
	formSubmissionColumns = "id, tenant_id, template_id, submitted_by, answers, created_at, updated_at"
)

var formTemplateListSpec = listSpec{
	table:         "form_templates",
	selectColumns: formTemplateColumns,
	filterFields:  query.Columns("name", "created_at"),
	searchColumns: []string{"name"},
	defaultOrder:  "name",
}

var formSubmissionListSpec = listSpec{
	table:         "form_submissions",
	selectColumns: formSubmissionColumns,
	filterFields:  query.Columns("submitted_by", "created_at"),
	searchColumns: []string{"submitted_by"},
	defaultOrder:  "created_at",
}

// formRepository implements FormRepository over Postgres.
type formRepository struct {
	pool *pgxpool.Pool
}

// NewFormRepository creates a new form repository.
func NewFormRepository(pool *pgxpool.Pool) FormRepository {
	return &formRepository{pool: pool}
}

// CreateTemplate inserts a form template, stamping its tenant from the scope.
func (r *formRepository) CreateTemplate(ctx context.Context, scope auth.Scope, template domain.FormTemplate) (domain.FormTemplate, error) {
	tenantID, err := scope.StampTenant(template.TenantID)
	if err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to create form template: %w", err)
	}
	template.TenantID = tenantID

	fieldsJSON, err := template.FieldsJSON()
	if err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to marshal template fields: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO form_templates (id, tenant_id, name, fields, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		template.ID, template.TenantID, template.Name, fieldsJSON,
		template.CreatedAt, template.UpdatedAt,
	)
	if err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to create form template: %w", err)
	}

	return template, nil
}

// GetTemplateByID retrieves a form template visible within the scope.
func (r *formRepository) GetTemplateByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.FormTemplate, error) {
	b := query.NewBuilder()
	sql := "SELECT " + formTemplateColumns + " FROM form_templates WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to get form template: %w", err)
	}
	sql += scoped

	var t domain.FormTemplate
	var fieldsJSON []byte
	row := r.pool.QueryRow(ctx, sql, b.Args()...)
	if err := row.Scan(&t.ID, &t.TenantID, &t.Name, &fieldsJSON, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to get form template: %w", err)
	}
	if err := json.Unmarshal(fieldsJSON, &t.Fields); err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to decode fields for template %s: %w", t.ID, err)
	}
	return t, nil
}

// ListTemplates retrieves form templates within the scope.
func (r *formRepository) ListTemplates(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.FormTemplate, int, error) {
	sql, args, dropped, err := buildListSQL(formTemplateListSpec, scope, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list form templates: %w", err)
	}
	logDropped(formTemplateListSpec.table, dropped)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list form templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.FormTemplate
	totalCount := 0
	for rows.Next() {
		var t domain.FormTemplate
		var fieldsJSON []byte
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &fieldsJSON, &t.CreatedAt, &t.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan form template: %w", err)
		}
		if err := json.Unmarshal(fieldsJSON, &t.Fields); err != nil {
			return nil, 0, fmt.Errorf("failed to decode fields for template %s: %w", t.ID, err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list form templates: %w", err)
	}

	return templates, totalCount, nil
}

// UpdateTemplate persists a template's mutable fields within the scope.
func (r *formRepository) UpdateTemplate(ctx context.Context, scope auth.Scope, template domain.FormTemplate) (domain.FormTemplate, error) {
	fieldsJSON, err := template.FieldsJSON()
	if err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to marshal template fields: %w", err)
	}

	b := query.NewBuilder()
	sql := fmt.Sprintf(
		`UPDATE form_templates SET name = %s, fields = %s, updated_at = %s WHERE id = %s`,
		b.Bind(template.Name), b.Bind(fieldsJSON), b.Bind(template.UpdatedAt), b.Bind(template.ID),
	)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to update form template: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return domain.FormTemplate{}, fmt.Errorf("failed to update form template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.FormTemplate{}, fmt.Errorf("form template %s not found in scope", template.ID)
	}

	return template, nil
}

// DeleteTemplate removes a form template visible within the scope.
func (r *formRepository) DeleteTemplate(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	b := query.NewBuilder()
	sql := "DELETE FROM form_templates WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return fmt.Errorf("failed to delete form template: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete form template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("form template %s not found in scope", id)
	}
	return nil
}

// CreateSubmission inserts a submission, stamping its tenant from the scope.
func (r *formRepository) CreateSubmission(ctx context.Context, scope auth.Scope, submission domain.FormSubmission) (domain.FormSubmission, error) {
	tenantID, err := scope.StampTenant(submission.TenantID)
	if err != nil {
		return domain.FormSubmission{}, fmt.Errorf("failed to create form submission: %w", err)
	}
	submission.TenantID = tenantID

	answersJSON, err := submission.AnswersJSON()
	if err != nil {
		return domain.FormSubmission{}, fmt.Errorf("failed to marshal submission answers: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO form_submissions (id, tenant_id, template_id, submitted_by, answers, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		submission.ID, submission.TenantID, submission.TemplateID, submission.SubmittedBy,
		answersJSON, submission.CreatedAt, submission.UpdatedAt,
	)
	if err != nil {
		return domain.FormSubmission{}, fmt.Errorf("failed to create form submission: %w", err)
	}

	return submission, nil
}

// GetSubmissionByID retrieves a submission visible within the scope.
func (r *formRepository) GetSubmissionByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.FormSubmission, error) {
	b := query.NewBuilder()
	sql := "SELECT " + formSubmissionColumns + " FROM form_submissions WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return domain.FormSubmission{}, fmt.Errorf("failed to get form submission: %w", err)
	}
	sql += scoped

	var s domain.FormSubmission
	var answersJSON []byte
	row := r.pool.QueryRow(ctx, sql, b.Args()...)
	if err := row.Scan(&s.ID, &s.TenantID, &s.TemplateID, &s.SubmittedBy, &answersJSON,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.FormSubmission{}, fmt.Errorf("failed to get form submission: %w", err)
	}
	if err := json.Unmarshal(answersJSON, &s.Answers); err != nil {
		return domain.FormSubmission{}, fmt.Errorf("failed to decode answers for submission %s: %w", s.ID, err)
	}
	return s, nil
}

// ListSubmissions retrieves a template's submissions within the scope.
func (r *formRepository) ListSubmissions(ctx context.Context, scope auth.Scope, templateID uuid.UUID, opts ListOptions) ([]domain.FormSubmission, int, error) {
	if scope.IsZero() {
		return nil, 0, fmt.Errorf("failed to list form submissions: no tenant scope resolved")
	}

	opts = opts.normalized()
	b := query.NewBuilder()
	conditions := []string{"template_id = " + b.Bind(templateID)}

	if tenantID, ok := scope.TenantID(); ok {
		conditions = append(conditions, "tenant_id = "+b.Bind(tenantID))
	}

	compiled := query.CompileGroup(b, formSubmissionListSpec.filterFields, opts.Filters)
	if compiled.SQL != "" {
		conditions = append(conditions, "("+compiled.SQL+")")
	}
	logDropped(formSubmissionListSpec.table, compiled.Dropped)

	if search := query.QuickSearch(b, opts.Search, formSubmissionListSpec.searchColumns); search != "" {
		conditions = append(conditions, "("+search+")")
	}

	sql := "SELECT " + formSubmissionColumns + ", COUNT(*) OVER() AS total_count FROM form_submissions WHERE " +
		conditions[0]
	for _, cond := range conditions[1:] {
		sql += " AND " + cond
	}
	sql += " ORDER BY " + query.OrderBy(formSubmissionListSpec.filterFields, opts.Sort, formSubmissionListSpec.defaultOrder)
	sql += " LIMIT " + b.Bind(opts.Limit) + " OFFSET " + b.Bind(opts.Offset)

	rows, err := r.pool.Query(ctx, sql, b.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list form submissions: %w", err)
	}
	defer rows.Close()

	var submissions []domain.FormSubmission
	totalCount := 0
	for rows.Next() {
		var s domain.FormSubmission
		var answersJSON []byte
		if err := rows.Scan(&s.ID, &s.TenantID, &s.TemplateID, &s.SubmittedBy, &answersJSON,
			&s.CreatedAt, &s.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan form submission: %w", err)
		}
		if err := json.Unmarshal(answersJSON, &s.Answers); err != nil {
			return nil, 0, fmt.Errorf("failed to decode answers for submission %s: %w", s.ID, err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list form submissions: %w", err)
	}

	return submissions, totalCount, nil
}

// DeleteSubmission removes a submission visible within the scope.
func (r *formRepository) DeleteSubmission(ctx context.Context, scope auth.Scope, id uuid.UUID) error {
	b := query.NewBuilder()
	sql := "DELETE FROM form_submissions WHERE id = " + b.Bind(id)
	scoped, err := scopeCondition(b, scope)
	if err != nil {
		return fmt.Errorf("failed to delete form submission: %w", err)
	}
	sql += scoped

	tag, err := r.pool.Exec(ctx, sql, b.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete form submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("form submission %s not found in scope", id)
	}
	return nil
}
