package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/export"
	"github.com/civica/electoral/internal/repository"
)

// NominationHandler exposes nomination CRUD, the review workflow, and XLSX
// export of filtered listings.
type NominationHandler struct {
	nominations repository.NominationRepository
	candidacies repository.CandidacyRepository
	exporter    *export.Service
}

// NewNominationHandler creates the handler.
func NewNominationHandler(
	nominations repository.NominationRepository,
	candidacies repository.CandidacyRepository,
	exporter *export.Service,
) *NominationHandler {
	return &NominationHandler{nominations: nominations, candidacies: candidacies, exporter: exporter}
}

// Routes mounts the handler on a chi router.
func (h *NominationHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/filter-fields", h.filterFields)
	r.Get("/export", h.export)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/submit", h.transition(domain.Nomination.Submit))
	r.Post("/{id}/start-review", h.transition(domain.Nomination.StartReview))
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
	r.Post("/{id}/withdraw", h.transition(domain.Nomination.Withdraw))
}

func (h *NominationHandler) list(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts, page, perPage := listParams(r)
	nominations, total, err := h.nominations.List(r.Context(), scope, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if nominations == nil {
		nominations = []domain.Nomination{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: nominations, Total: total, Page: page, PerPage: perPage})
}

type createNominationRequest struct {
	ElectionID    uuid.UUID      `json:"election_id"`
	ApplicantName string         `json:"applicant_name"`
	Email         string         `json:"email"`
	Answers       map[string]any `json:"answers"`
}

func (h *NominationHandler) create(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	var req createNominationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ElectionID == uuid.Nil {
		http.Error(w, "election_id is required", http.StatusBadRequest)
		return
	}
	if req.ApplicantName == "" {
		http.Error(w, "applicant_name is required", http.StatusBadRequest)
		return
	}

	nomination := domain.NewNomination(uuid.Nil, req.ElectionID, req.ApplicantName, req.Email, req.Answers)
	created, err := h.nominations.Create(r.Context(), scope, nomination)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *NominationHandler) get(w http.ResponseWriter, r *http.Request) {
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

	nomination, err := h.nominations.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, nomination)
}

func (h *NominationHandler) delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.nominations.Delete(r.Context(), scope, id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reviewRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// approve accepts a nomination and derives its candidacy in one step.
func (h *NominationHandler) approve(w http.ResponseWriter, r *http.Request) {
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

	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	nomination, err := h.nominations.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	approved, err := nomination.Approve(req.Notes)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	updated, err := h.nominations.Update(r.Context(), scope, approved)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	candidacy, err := updated.ToCandidacy()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	created, err := h.candidacies.Create(r.Context(), scope, candidacy)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("nomination approved but candidacy creation failed: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"nomination": updated,
		"candidacy":  created,
	})
}

func (h *NominationHandler) reject(w http.ResponseWriter, r *http.Request) {
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

	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	nomination, err := h.nominations.GetByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	rejected, err := nomination.Reject(req.Reason)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	updated, err := h.nominations.Update(r.Context(), scope, rejected)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *NominationHandler) transition(move func(domain.Nomination) (domain.Nomination, error)) http.HandlerFunc {
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

		nomination, err := h.nominations.GetByID(r.Context(), scope, id)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}

		moved, err := move(nomination)
		if err != nil {
			writeError(w, http.StatusConflict, err)
			return
		}

		updated, err := h.nominations.Update(r.Context(), scope, moved)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func (h *NominationHandler) export(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts := exportParams(r)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="nominations.xlsx"`)
	if err := h.exporter.WriteNominations(r.Context(), scope, opts, w); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (h *NominationHandler) filterFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.NominationFilterFields())
}
