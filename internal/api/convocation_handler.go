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

// ConvocationHandler exposes convocation CRUD and the publish/close lifecycle.
type ConvocationHandler struct {
	convocations repository.ConvocationRepository
	elections    repository.ElectionRepository
}

// NewConvocationHandler creates the handler.
func NewConvocationHandler(convocations repository.ConvocationRepository, elections repository.ElectionRepository) *ConvocationHandler {
	return &ConvocationHandler{convocations: convocations, elections: elections}
}

// Routes mounts the handler on a chi router.
func (h *ConvocationHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/filter-fields", h.filterFields)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/publish", h.publish)
	r.Post("/{id}/close", h.close)
}

func (h *ConvocationHandler) list(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts, page, perPage := listParams(r)
	convocations, total, err := h.convocations.List(r.Context(), scope, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if convocations == nil {
		convocations = []domain.Convocation{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: convocations, Total: total, Page: page, PerPage: perPage})
}

type createConvocationRequest struct {
	ElectionID uuid.UUID `json:"election_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
}

func (h *ConvocationHandler) create(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	var req createConvocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ElectionID == uuid.Nil {
		http.Error(w, "election_id is required", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	// The referenced election must be visible in the caller's scope.
	if _, err := h.elections.GetByID(r.Context(), scope, req.ElectionID); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	convocation := domain.NewConvocation(uuid.Nil, req.ElectionID, req.Title, req.Body)
	created, err := h.convocations.Create(r.Context(), scope, convocation)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ConvocationHandler) get(w http.ResponseWriter, r *http.Request) {
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

	convocation, err := h.convocations.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, convocation)
}

func (h *ConvocationHandler) update(w http.ResponseWriter, r *http.Request) {
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

	var req createConvocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	convocation, err := h.convocations.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if req.Title != "" {
		convocation.Title = req.Title
	}
	convocation.Body = req.Body
	convocation.UpdatedAt = time.Now()

	updated, err := h.convocations.Update(r.Context(), scope, convocation)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ConvocationHandler) delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.convocations.Delete(r.Context(), scope, id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type publishConvocationRequest struct {
	NominationsOpenAt  time.Time `json:"nominations_open_at"`
	NominationsCloseAt time.Time `json:"nominations_close_at"`
}

func (h *ConvocationHandler) publish(w http.ResponseWriter, r *http.Request) {
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

	var req publishConvocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	convocation, err := h.convocations.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	published, err := convocation.Publish(req.NominationsOpenAt, req.NominationsCloseAt)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	updated, err := h.convocations.Update(r.Context(), scope, published)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ConvocationHandler) close(w http.ResponseWriter, r *http.Request) {
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

	convocation, err := h.convocations.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	closed, err := convocation.Close()
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	updated, err := h.convocations.Update(r.Context(), scope, closed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ConvocationHandler) filterFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.ConvocationFilterFields())
}
