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

// FormHandler exposes dynamic form templates and their submissions.
// Submissions are validated against the template before they are stored.
type FormHandler struct {
	forms repository.FormRepository
}

// NewFormHandler creates the handler.
func NewFormHandler(forms repository.FormRepository) *FormHandler {
	return &FormHandler{forms: forms}
}

// Routes mounts the handler on a chi router.
func (h *FormHandler) Routes(r chi.Router) {
	r.Get("/", h.listTemplates)
	r.Post("/", h.createTemplate)
	r.Get("/filter-fields", h.filterFields)
	r.Get("/{id}", h.getTemplate)
	r.Put("/{id}", h.updateTemplate)
	r.Delete("/{id}", h.deleteTemplate)
	r.Post("/{id}/validate", h.validate)
	r.Get("/{id}/submissions", h.listSubmissions)
	r.Post("/{id}/submissions", h.createSubmission)
	r.Get("/{id}/submissions/{submissionID}", h.getSubmission)
	r.Delete("/{id}/submissions/{submissionID}", h.deleteSubmission)
}

func (h *FormHandler) listTemplates(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	opts, page, perPage := listParams(r)
	templates, total, err := h.forms.ListTemplates(r.Context(), scope, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if templates == nil {
		templates = []domain.FormTemplate{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: templates, Total: total, Page: page, PerPage: perPage})
}

type templateRequest struct {
	Name   string             `json:"name"`
	Fields []domain.FormField `json:"fields"`
}

func validateTemplateFields(fields []domain.FormField) string {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return "every field needs a name"
		}
		if _, dup := seen[f.Name]; dup {
			return "duplicate field name " + f.Name
		}
		seen[f.Name] = struct{}{}
		if f.Type == domain.FormFieldTypeSelect && len(f.Options) == 0 {
			return "select field " + f.Name + " needs options"
		}
	}
	return ""
}

func (h *FormHandler) createTemplate(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	var req templateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if msg := validateTemplateFields(req.Fields); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	template := domain.NewFormTemplate(uuid.Nil, req.Name, req.Fields)
	created, err := h.forms.CreateTemplate(r.Context(), scope, template)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *FormHandler) getTemplate(w http.ResponseWriter, r *http.Request) {
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

	template, err := h.forms.GetTemplateByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, template)
}

func (h *FormHandler) updateTemplate(w http.ResponseWriter, r *http.Request) {
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

	var req templateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if msg := validateTemplateFields(req.Fields); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	template, err := h.forms.GetTemplateByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if req.Name != "" {
		template.Name = req.Name
	}
	if req.Fields != nil {
		template.Fields = req.Fields
	}
	template.UpdatedAt = time.Now()

	updated, err := h.forms.UpdateTemplate(r.Context(), scope, template)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *FormHandler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
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

	if err := h.forms.DeleteTemplate(r.Context(), scope, id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type answersRequest struct {
	SubmittedBy string         `json:"submitted_by"`
	Answers     map[string]any `json:"answers"`
}

// validate runs template validation without persisting anything, so clients
// can give inline feedback while a form is being filled in.
func (h *FormHandler) validate(w http.ResponseWriter, r *http.Request) {
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

	var req answersRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	template, err := h.forms.GetTemplateByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, template.Validate(req.Answers))
}

func (h *FormHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
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

	var req answersRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	template, err := h.forms.GetTemplateByID(r.Context(), scope, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	result := template.Validate(req.Answers)
	if !result.IsValid {
		writeJSON(w, http.StatusBadRequest, result)
		return
	}

	submission := domain.NewFormSubmission(uuid.Nil, template.ID, req.SubmittedBy, req.Answers)
	created, err := h.forms.CreateSubmission(r.Context(), scope, submission)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"submission": created,
		"warnings":   result.Warnings,
	})
}

func (h *FormHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
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

	opts, page, perPage := listParams(r)
	submissions, total, err := h.forms.ListSubmissions(r.Context(), scope, id, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if submissions == nil {
		submissions = []domain.FormSubmission{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: submissions, Total: total, Page: page, PerPage: perPage})
}

func (h *FormHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	submissionID, err := uuid.Parse(chi.URLParam(r, "submissionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	submission, err := h.forms.GetSubmissionByID(r.Context(), scope, submissionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

func (h *FormHandler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	scope, err := auth.RequireScope(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, err)
		return
	}

	submissionID, err := uuid.Parse(chi.URLParam(r, "submissionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.forms.DeleteSubmission(r.Context(), scope, submissionID); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FormHandler) filterFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.FormTemplateFilterFields())
}
