package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents one customer organization. Every tenant-scoped row in the
// system carries its ID; rows are only visible inside that boundary unless a
// caller explicitly uses the system scope.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTenant creates a new tenant with immutable pattern
func NewTenant(slug, name string) Tenant {
	now := time.Now()
	return Tenant{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithName returns a new tenant with updated name
func (t Tenant) WithName(name string) Tenant {
	return Tenant{
		ID:        t.ID,
		Slug:      t.Slug,
		Name:      name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: time.Now(),
	}
}
