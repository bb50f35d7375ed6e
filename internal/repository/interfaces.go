package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
)

// TenantRepository defines the interface for tenant operations. Tenants are
// system-level rows; they carry no tenant_id themselves.
type TenantRepository interface {
	Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (domain.Tenant, error)
	List(ctx context.Context) ([]domain.Tenant, error)
	Update(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ElectionRepository defines the interface for election operations.
type ElectionRepository interface {
	Create(ctx context.Context, scope auth.Scope, election domain.Election) (domain.Election, error)
	GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Election, error)
	List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Election, int, error)
	Update(ctx context.Context, scope auth.Scope, election domain.Election) (domain.Election, error)
	Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error
}

// ConvocationRepository defines the interface for convocation operations.
type ConvocationRepository interface {
	Create(ctx context.Context, scope auth.Scope, convocation domain.Convocation) (domain.Convocation, error)
	GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Convocation, error)
	List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Convocation, int, error)
	Update(ctx context.Context, scope auth.Scope, convocation domain.Convocation) (domain.Convocation, error)
	Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error
}

// NominationRepository defines the interface for nomination operations.
type NominationRepository interface {
	Create(ctx context.Context, scope auth.Scope, nomination domain.Nomination) (domain.Nomination, error)
	GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Nomination, error)
	List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Nomination, int, error)
	Update(ctx context.Context, scope auth.Scope, nomination domain.Nomination) (domain.Nomination, error)
	Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error
}

// CandidacyRepository defines the interface for candidacy operations.
type CandidacyRepository interface {
	Create(ctx context.Context, scope auth.Scope, candidacy domain.Candidacy) (domain.Candidacy, error)
	GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Candidacy, error)
	List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Candidacy, int, error)
	Update(ctx context.Context, scope auth.Scope, candidacy domain.Candidacy) (domain.Candidacy, error)
	Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error
}

// AssemblyRepository defines the interface for assembly operations.
type AssemblyRepository interface {
	Create(ctx context.Context, scope auth.Scope, assembly domain.Assembly) (domain.Assembly, error)
	GetByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.Assembly, error)
	List(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.Assembly, int, error)
	Update(ctx context.Context, scope auth.Scope, assembly domain.Assembly) (domain.Assembly, error)
	Delete(ctx context.Context, scope auth.Scope, id uuid.UUID) error
}

// FormRepository defines the interface for dynamic form templates and their
// submissions.
type FormRepository interface {
	CreateTemplate(ctx context.Context, scope auth.Scope, template domain.FormTemplate) (domain.FormTemplate, error)
	GetTemplateByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.FormTemplate, error)
	ListTemplates(ctx context.Context, scope auth.Scope, opts ListOptions) ([]domain.FormTemplate, int, error)
	UpdateTemplate(ctx context.Context, scope auth.Scope, template domain.FormTemplate) (domain.FormTemplate, error)
	DeleteTemplate(ctx context.Context, scope auth.Scope, id uuid.UUID) error

	CreateSubmission(ctx context.Context, scope auth.Scope, submission domain.FormSubmission) (domain.FormSubmission, error)
	GetSubmissionByID(ctx context.Context, scope auth.Scope, id uuid.UUID) (domain.FormSubmission, error)
	ListSubmissions(ctx context.Context, scope auth.Scope, templateID uuid.UUID, opts ListOptions) ([]domain.FormSubmission, int, error)
	DeleteSubmission(ctx context.Context, scope auth.Scope, id uuid.UUID) error
}
