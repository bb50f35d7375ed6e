package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/repository"
)

// stubElectionRepo keeps elections in memory while honouring scope semantics
// the way the Postgres repository does.
type stubElectionRepo struct {
	elections map[uuid.UUID]domain.Election
}

func newStubElectionRepo() *stubElectionRepo {
	return &stubElectionRepo{elections: make(map[uuid.UUID]domain.Election)}
}

func (s *stubElectionRepo) visible(scope auth.Scope, e domain.Election) bool {
	if scope.IsSystem() {
		return true
	}
	tenantID, ok := scope.TenantID()
	return ok && e.TenantID == tenantID
}

func (s *stubElectionRepo) Create(_ context.Context, scope auth.Scope, election domain.Election) (domain.Election, error) {
	tenantID, err := scope.StampTenant(election.TenantID)
	if err != nil {
		return domain.Election{}, err
	}
	election.TenantID = tenantID
	s.elections[election.ID] = election
	return election, nil
}

func (s *stubElectionRepo) GetByID(_ context.Context, scope auth.Scope, id uuid.UUID) (domain.Election, error) {
	election, ok := s.elections[id]
	if !ok || !s.visible(scope, election) {
		return domain.Election{}, fmt.Errorf("election not found")
	}
	return election, nil
}

func (s *stubElectionRepo) List(_ context.Context, scope auth.Scope, _ repository.ListOptions) ([]domain.Election, int, error) {
	if scope.IsZero() {
		return nil, 0, fmt.Errorf("no tenant scope resolved")
	}
	var out []domain.Election
	for _, e := range s.elections {
		if s.visible(scope, e) {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (s *stubElectionRepo) Update(_ context.Context, scope auth.Scope, election domain.Election) (domain.Election, error) {
	existing, ok := s.elections[election.ID]
	if !ok || !s.visible(scope, existing) {
		return domain.Election{}, fmt.Errorf("election not found in scope")
	}
	election.TenantID = existing.TenantID
	s.elections[election.ID] = election
	return election, nil
}

func (s *stubElectionRepo) Delete(_ context.Context, scope auth.Scope, id uuid.UUID) error {
	existing, ok := s.elections[id]
	if !ok || !s.visible(scope, existing) {
		return fmt.Errorf("election not found in scope")
	}
	delete(s.elections, id)
	return nil
}

func electionTestServer(repo repository.ElectionRepository) http.Handler {
	r := chi.NewRouter()
	r.Route("/elections", NewElectionHandler(repo).Routes)
	return r
}

func scopedRequest(t *testing.T, method, target, body string, scope auth.Scope) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if !scope.IsZero() {
		req = req.WithContext(auth.ContextWithScope(req.Context(), scope))
	}
	return req
}

func TestElectionHandlerRequiresScope(t *testing.T) {
	server := electionTestServer(newStubElectionRepo())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodGet, "/elections", "", auth.Scope{}))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 without a scope", rec.Code)
	}
}

func TestElectionHandlerCreateStampsTenant(t *testing.T) {
	repo := newStubElectionRepo()
	server := electionTestServer(repo)
	tenantID := uuid.New()
	scope, _ := auth.TenantScope(tenantID)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodPost, "/elections", `{"name":"Board 2026"}`, scope))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created domain.Election
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.TenantID != tenantID {
		t.Errorf("tenant = %v, want stamped from scope %v", created.TenantID, tenantID)
	}
	if created.Status != domain.ElectionStatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
}

func TestElectionHandlerCreateRequiresName(t *testing.T) {
	server := electionTestServer(newStubElectionRepo())
	scope, _ := auth.TenantScope(uuid.New())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodPost, "/elections", `{"description":"no name"}`, scope))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestElectionHandlerTenantIsolation(t *testing.T) {
	repo := newStubElectionRepo()
	server := electionTestServer(repo)

	ownerScope, _ := auth.TenantScope(uuid.New())
	election, _ := repo.Create(context.Background(), ownerScope, domain.NewElection(uuid.Nil, "Private", ""))

	otherScope, _ := auth.TenantScope(uuid.New())
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodGet, "/elections/"+election.ID.String(), "", otherScope))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 across tenants", rec.Code)
	}

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodGet, "/elections/"+election.ID.String(), "", auth.SystemScope()))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 under the system scope", rec.Code)
	}
}

func TestElectionHandlerInvalidTransitionConflicts(t *testing.T) {
	repo := newStubElectionRepo()
	server := electionTestServer(repo)
	scope, _ := auth.TenantScope(uuid.New())
	election, _ := repo.Create(context.Background(), scope, domain.NewElection(uuid.Nil, "Board", ""))

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodPost, "/elections/"+election.ID.String()+"/open", "", scope))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 for opening a draft", rec.Code)
	}
}

func TestElectionHandlerScheduleThenOpen(t *testing.T) {
	repo := newStubElectionRepo()
	server := electionTestServer(repo)
	scope, _ := auth.TenantScope(uuid.New())
	election, _ := repo.Create(context.Background(), scope, domain.NewElection(uuid.Nil, "Board", ""))

	body := `{"starts_at":"2026-09-01T08:00:00Z","ends_at":"2026-09-02T20:00:00Z"}`
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodPost, "/elections/"+election.ID.String()+"/schedule", body, scope))
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodPost, "/elections/"+election.ID.String()+"/open", "", scope))
	if rec.Code != http.StatusOK {
		t.Fatalf("open status = %d, body %s", rec.Code, rec.Body.String())
	}

	var opened domain.Election
	if err := json.Unmarshal(rec.Body.Bytes(), &opened); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if opened.Status != domain.ElectionStatusOpen {
		t.Errorf("status = %q, want open", opened.Status)
	}
}

func TestElectionHandlerListEnvelope(t *testing.T) {
	repo := newStubElectionRepo()
	server := electionTestServer(repo)
	scope, _ := auth.TenantScope(uuid.New())
	_, _ = repo.Create(context.Background(), scope, domain.NewElection(uuid.Nil, "Board", ""))

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, scopedRequest(t, http.MethodGet, "/elections?page=2&per_page=10", "", scope))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var envelope struct {
		Total   int `json:"total"`
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Total != 1 || envelope.Page != 2 || envelope.PerPage != 10 {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestElectionHandlerFilterFields(t *testing.T) {
	server := electionTestServer(newStubElectionRepo())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elections/filter-fields", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var fields []domain.FilterFieldDescriptor
	if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(fields) == 0 {
		t.Fatal("no filter fields returned")
	}
	for _, f := range fields {
		if f.Name == "" || len(f.Operators) == 0 {
			t.Errorf("descriptor incomplete: %+v", f)
		}
	}
}
