package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// Scope is the data-visibility boundary of one request. It is either bound to
// a single tenant or explicitly system-wide; there is no implicit "no tenant
// resolved, see everything" state. Repositories take a Scope on every call.
type Scope struct {
	tenantID uuid.UUID
	system   bool
}

// TenantScope binds visibility to one tenant.
func TenantScope(tenantID uuid.UUID) (Scope, error) {
	if tenantID == uuid.Nil {
		return Scope{}, fmt.Errorf("tenant scope requires a tenant id")
	}
	return Scope{tenantID: tenantID}, nil
}

// SystemScope grants cross-tenant visibility. It must be requested
// explicitly by privileged code paths; it is never a fallback.
func SystemScope() Scope {
	return Scope{system: true}
}

// IsSystem reports whether the scope bypasses tenant isolation.
func (s Scope) IsSystem() bool {
	return s.system
}

// TenantID returns the bound tenant, if the scope is tenant-bound.
func (s Scope) TenantID() (uuid.UUID, bool) {
	if s.system || s.tenantID == uuid.Nil {
		return uuid.Nil, false
	}
	return s.tenantID, true
}

// IsZero reports whether the scope was never resolved. A zero scope is a
// programming error and repositories reject it rather than widening
// visibility.
func (s Scope) IsZero() bool {
	return !s.system && s.tenantID == uuid.Nil
}

func (s Scope) String() string {
	if s.system {
		return "system"
	}
	if s.tenantID == uuid.Nil {
		return "unresolved"
	}
	return "tenant:" + s.tenantID.String()
}

// StampTenant resolves the tenant id a new row should carry. A row created
// under a tenant scope is stamped with that tenant; an explicit id that
// contradicts the scope is rejected. Under the system scope the caller must
// supply the id itself.
func (s Scope) StampTenant(explicit uuid.UUID) (uuid.UUID, error) {
	if s.IsZero() {
		return uuid.Nil, fmt.Errorf("cannot create row without a resolved scope")
	}
	if s.system {
		if explicit == uuid.Nil {
			return uuid.Nil, fmt.Errorf("system scope requires an explicit tenant id on create")
		}
		return explicit, nil
	}
	if explicit != uuid.Nil && explicit != s.tenantID {
		return uuid.Nil, fmt.Errorf("tenant id %s does not match the authenticated scope", explicit)
	}
	return s.tenantID, nil
}
