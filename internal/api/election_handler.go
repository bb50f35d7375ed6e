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

// ElectionHandler exposes election CRUD and lifecycle transitions.
type ElectionHandler struct {
	elections repository.ElectionRepository
}

// NewElectionHandler creates the handler.
func NewElectionHandler(elections repository.ElectionRepository) *ElectionHandler {
	return &ElectionHandler{elections: elections}
}

// Routes mounts the handler on a chi router.
func (h *ElectionHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/filter-fields", h.filterFields)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/schedule", h.schedule)
	r.Post("/{id}/open", h.transition(domain.Election.Open))
	r.Post("/{id}/close", h.transition(domain.Election.Close))
	r.Post("/{id}/archive", h.transition(domain.Election.Archive))
}

func (h *ElectionHandler) list(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts, page, perPage := listParams(r)
	elections, total, err := h.elections.List(r.Context(), scope, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if elections == nil {
		elections = []domain.Election{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: elections, Total: total, Page: page, PerPage: perPage})
}

type createElectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *ElectionHandler) create(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	var req createElectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	election := domain.NewElection(uuid.Nil, req.Name, req.Description)
	created, err := h.elections.Create(r.Context(), scope, election)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ElectionHandler) get(w http.ResponseWriter, r *http.Request) {
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

	election, err := h.elections.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, election)
}

func (h *ElectionHandler) update(w http.ResponseWriter, r *http.Request) {
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

	var req createElectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	election, err := h.elections.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if req.Name != "" {
		election.Name = req.Name
	}
	election.Description = req.Description
	election.UpdatedAt = time.Now()

	updated, err := h.elections.Update(r.Context(), scope, election)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ElectionHandler) delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.elections.Delete(r.Context(), scope, id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type scheduleElectionRequest struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (h *ElectionHandler) schedule(w http.ResponseWriter, r *http.Request) {
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

	var req scheduleElectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	election, err := h.elections.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	scheduled, err := election.Schedule(req.StartsAt, req.EndsAt)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	updated, err := h.elections.Update(r.Context(), scope, scheduled)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// transition builds a handler for the parameterless lifecycle moves.
func (h *ElectionHandler) transition(move func(domain.Election) (domain.Election, error)) http.HandlerFunc {
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

		election, err := h.elections.GetByID(r.Context(), scope, id)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}

		moved, err := move(election)
		if err != nil {
			writeError(w, http.StatusConflict, err)
			return
		}

		updated, err := h.elections.Update(r.Context(), scope, moved)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func (h *ElectionHandler) filterFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.ElectionFilterFields())
}
