package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/cache"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/repository"
)

const (
	tenantHeader     = "X-Tenant"
	adminTokenHeader = "X-Admin-Token"
)

// TenantResolver resolves the request's data-visibility scope before the
// handlers run. A tenant is identified by the X-Tenant header (slug or UUID);
// the system scope is granted only when the configured admin token matches.
// Requests that resolve neither get no scope at all, and handlers fail closed.
type TenantResolver struct {
	tenants    repository.TenantRepository
	adminToken string
	cache      *cache.Cache[domain.Tenant]
}

// NewTenantResolver creates the resolver middleware. adminToken may be empty,
// which disables the system-scope path entirely.
func NewTenantResolver(tenants repository.TenantRepository, adminToken string) *TenantResolver {
	return &TenantResolver{
		tenants:    tenants,
		adminToken: adminToken,
		cache:      cache.New[domain.Tenant](256, 5*time.Minute),
	}
}

// Handler wraps next with scope resolution.
func (tr *TenantResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get(adminTokenHeader); token != "" {
			if tr.adminToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(tr.adminToken)) == 1 {
				ctx := auth.ContextWithScope(r.Context(), auth.SystemScope())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			http.Error(w, "invalid admin token", http.StatusForbidden)
			return
		}

		key := strings.TrimSpace(r.Header.Get(tenantHeader))
		if key == "" {
			// No scope resolved: handlers reject tenant-scoped work.
			next.ServeHTTP(w, r)
			return
		}

		tenant, err := tr.resolve(r, key)
		if err != nil {
			log.Warn().Str("tenant", key).Err(err).Msg("failed to resolve tenant")
			http.Error(w, "unknown tenant", http.StatusNotFound)
			return
		}

		scope, err := auth.TenantScope(tenant.ID)
		if err != nil {
			http.Error(w, "unknown tenant", http.StatusNotFound)
			return
		}

		ctx := auth.ContextWithScope(r.Context(), scope)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (tr *TenantResolver) resolve(r *http.Request, key string) (domain.Tenant, error) {
	if tenant, ok := tr.cache.Get(key); ok {
		return tenant, nil
	}

	var tenant domain.Tenant
	var err error
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		tenant, err = tr.tenants.GetByID(r.Context(), id)
	} else {
		tenant, err = tr.tenants.GetBySlug(r.Context(), key)
	}
	if err != nil {
		return domain.Tenant{}, err
	}

	tr.cache.Set(key, tenant)
	return tenant, nil
}
