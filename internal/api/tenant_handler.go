package api

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// TenantHandler manages tenant records. Every route requires the system
// scope; tenant-scoped callers cannot see or manage other tenants.
type TenantHandler struct {
	tenants repository.TenantRepository
}

// NewTenantHandler creates the handler.
func NewTenantHandler(tenants repository.TenantRepository) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// Routes mounts the handler on a chi router.
func (h *TenantHandler) Routes(r chi.Router) {
	r.Use(requireSystem)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func requireSystem(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, err := auth.RequireScope(r.Context())
		if err != nil {
			writeError(w, http.StatusForbidden, err)
			return
		}
		if !scope.IsSystem() {
			writeError(w, http.StatusForbidden, fmt.Errorf("tenant administration requires the system scope"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *TenantHandler) list(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if tenants == nil {
		tenants = []domain.Tenant{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": tenants})
}

type tenantRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func (h *TenantHandler) create(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !slugPattern.MatchString(req.Slug) {
		http.Error(w, "slug must be lowercase letters, digits and hyphens", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	created, err := h.tenants.Create(r.Context(), domain.NewTenant(req.Slug, req.Name))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TenantHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tenant, err := h.tenants.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *TenantHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req tenantRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	tenant, err := h.tenants.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	updated, err := h.tenants.Update(r.Context(), tenant.WithName(req.Name))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TenantHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.tenants.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
