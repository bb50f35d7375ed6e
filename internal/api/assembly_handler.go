package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/repository"
)

// AssemblyHandler exposes assembly CRUD and session lifecycle.
type AssemblyHandler struct {
	assemblies repository.AssemblyRepository
}

// NewAssemblyHandler creates the handler.
func NewAssemblyHandler(assemblies repository.AssemblyRepository) *AssemblyHandler {
	return &AssemblyHandler{assemblies: assemblies}
}

// Routes mounts the handler on a chi router.
func (h *AssemblyHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/filter-fields", h.filterFields)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/start", h.start)
	r.Post("/{id}/conclude", h.transition(domain.Assembly.Conclude))
	r.Post("/{id}/cancel", h.transition(domain.Assembly.Cancel))
}

func (h *AssemblyHandler) list(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts, page, perPage := listParams(r)
	assemblies, total, err := h.assemblies.List(r.Context(), scope, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if assemblies == nil {
		assemblies = []domain.Assembly{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: assemblies, Total: total, Page: page, PerPage: perPage})
}

type createAssemblyRequest struct {
	Title        string    `json:"title"`
	Agenda       string    `json:"agenda"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	QuorumNeeded int       `json:"quorum_needed"`
}

func (h *AssemblyHandler) create(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	var req createAssemblyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.QuorumNeeded < 0 {
		http.Error(w, "quorum_needed must not be negative", http.StatusBadRequest)
		return
	}

	assembly := domain.NewAssembly(uuid.Nil, req.Title, req.Agenda, req.ScheduledAt, req.QuorumNeeded)
	created, err := h.assemblies.Create(r.Context(), scope, assembly)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AssemblyHandler) get(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	assembly, err := h.assemblies.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, assembly)
}

func (h *AssemblyHandler) update(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req createAssemblyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	assembly, err := h.assemblies.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if req.Title != "" {
		assembly.Title = req.Title
	}
	assembly.Agenda = req.Agenda
	if !req.ScheduledAt.IsZero() {
		assembly.ScheduledAt = req.ScheduledAt
	}
	if req.QuorumNeeded > 0 {
		assembly.QuorumNeeded = req.QuorumNeeded
	}
	assembly.UpdatedAt = time.Now()

	updated, err := h.assemblies.Update(r.Context(), scope, assembly)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AssemblyHandler) delete(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.assemblies.Delete(r.Context(), scope, id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type startAssemblyRequest struct {
	AttendeeCount int `json:"attendee_count"`
}

func (h *AssemblyHandler) start(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req startAssemblyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	assembly, err := h.assemblies.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	started, err := assembly.Start(req.AttendeeCount)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	updated, err := h.assemblies.Update(r.Context(), scope, started)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AssemblyHandler) transition(move func(domain.Assembly) (domain.Assembly, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := auth.RequireScope(r.Context())
		if err != nil {
			writeError(w, http.StatusForbidden, err)
			return
		}

		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		assembly, err := h.assemblies.GetByID(r.Context(), scope, id)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}

		moved, err := move(assembly)
		if err != nil {
			writeError(w, http.StatusConflict, err)
			return
		}

		updated, err := h.assemblies.Update(r.Context(), scope, moved)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func (h *AssemblyHandler) filterFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.AssemblyFilterFields())
}
