package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/export"
	"github.com/civica/electoral/internal/repository"
)

// CandidacyHandler exposes candidacy listings and lifecycle transitions.
// Candidacies are created through nomination approval, not directly.
type CandidacyHandler struct {
	candidacies repository.CandidacyRepository
	exporter    *export.Service
}

// NewCandidacyHandler creates the handler.
func NewCandidacyHandler(candidacies repository.CandidacyRepository, exporter *export.Service) *CandidacyHandler {
	return &CandidacyHandler{candidacies: candidacies, exporter: exporter}
}

// Routes mounts the handler on a chi router.
func (h *CandidacyHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/filter-fields", h.filterFields)
	r.Get("/export", h.export)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/confirm", h.confirm)
	r.Post("/{id}/withdraw", h.withReason(domain.Candidacy.Withdraw))
	r.Post("/{id}/disqualify", h.withReason(domain.Candidacy.Disqualify))
}

func (h *CandidacyHandler) list(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts, page, perPage := listParams(r)
	candidacies, total, err := h.candidacies.List(r.Context(), scope, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if candidacies == nil {
		candidacies = []domain.Candidacy{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: candidacies, Total: total, Page: page, PerPage: perPage})
}

func (h *CandidacyHandler) get(w http.ResponseWriter, r *http.Request) {
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

	candidacy, err := h.candidacies.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, candidacy)
}

type updateCandidacyRequest struct {
	ListName string `json:"list_name"`
	Position int    `json:"position"`
}

func (h *CandidacyHandler) update(w http.ResponseWriter, r *http.Request) {
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

	var req updateCandidacyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	candidacy, err := h.candidacies.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	candidacy.ListName = req.ListName
	candidacy.Position = req.Position
	candidacy.UpdatedAt = time.Now()

	updated, err := h.candidacies.Update(r.Context(), scope, candidacy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *CandidacyHandler) delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.candidacies.Delete(r.Context(), scope, id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CandidacyHandler) confirm(w http.ResponseWriter, r *http.Request) {
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

	candidacy, err := h.candidacies.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	confirmed, err := candidacy.Confirm()
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	updated, err := h.candidacies.Update(r.Context(), scope, confirmed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *CandidacyHandler) withReason(move func(domain.Candidacy, string) (domain.Candidacy, error)) http.HandlerFunc {
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

		var req reasonRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		candidacy, err := h.candidacies.GetByID(r.Context(), scope, id)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}

		moved, err := move(candidacy, req.Reason)
		if err != nil {
			writeError(w, http.StatusConflict, err)
			return
		}

		updated, err := h.candidacies.Update(r.Context(), scope, moved)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func (h *CandidacyHandler) export(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts := exportParams(r)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="candidacies.xlsx"`)
	if err := h.exporter.WriteCandidacies(r.Context(), scope, opts, w); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (h *CandidacyHandler) filterFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.CandidacyFilterFields())
}
