package export

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/repository"
)

// stubNominationRepo serves List pages the way the Postgres listing does,
// including the hard page-size cap, and records the largest page asked for.
type stubNominationRepo struct {
	rows     []domain.Nomination
	maxLimit int
}

func clampPage(limit int) int {
	if limit <= 0 {
		limit = 25
	}
	if limit > repository.MaxPageSize {
		limit = repository.MaxPageSize
	}
	return limit
}

func (s *stubNominationRepo) List(_ context.Context, _ auth.Scope, opts repository.ListOptions) ([]domain.Nomination, int, error) {
	if opts.Limit > s.maxLimit {
		s.maxLimit = opts.Limit
	}
	limit := clampPage(opts.Limit)
	offset := max(opts.Offset, 0)
	if offset >= len(s.rows) {
		return nil, len(s.rows), nil
	}
	end := min(offset+limit, len(s.rows))
	return s.rows[offset:end], len(s.rows), nil
}

func (s *stubNominationRepo) Create(_ context.Context, _ auth.Scope, n domain.Nomination) (domain.Nomination, error) {
	return n, nil
}

func (s *stubNominationRepo) GetByID(_ context.Context, _ auth.Scope, _ uuid.UUID) (domain.Nomination, error) {
	return domain.Nomination{}, fmt.Errorf("not implemented")
}

func (s *stubNominationRepo) Update(_ context.Context, _ auth.Scope, n domain.Nomination) (domain.Nomination, error) {
	return n, nil
}

func (s *stubNominationRepo) Delete(_ context.Context, _ auth.Scope, _ uuid.UUID) error {
	return nil
}

type stubCandidacyRepo struct {
	rows []domain.Candidacy
}

func (s *stubCandidacyRepo) List(_ context.Context, _ auth.Scope, opts repository.ListOptions) ([]domain.Candidacy, int, error) {
	limit := clampPage(opts.Limit)
	offset := max(opts.Offset, 0)
	if offset >= len(s.rows) {
		return nil, len(s.rows), nil
	}
	end := min(offset+limit, len(s.rows))
	return s.rows[offset:end], len(s.rows), nil
}

func (s *stubCandidacyRepo) Create(_ context.Context, _ auth.Scope, c domain.Candidacy) (domain.Candidacy, error) {
	return c, nil
}

func (s *stubCandidacyRepo) GetByID(_ context.Context, _ auth.Scope, _ uuid.UUID) (domain.Candidacy, error) {
	return domain.Candidacy{}, fmt.Errorf("not implemented")
}

func (s *stubCandidacyRepo) Update(_ context.Context, _ auth.Scope, c domain.Candidacy) (domain.Candidacy, error) {
	return c, nil
}

func (s *stubCandidacyRepo) Delete(_ context.Context, _ auth.Scope, _ uuid.UUID) error {
	return nil
}

func seedNominations(tenantID uuid.UUID, n int) []domain.Nomination {
	electionID := uuid.New()
	rows := make([]domain.Nomination, n)
	for i := range rows {
		rows[i] = domain.NewNomination(tenantID, electionID,
			fmt.Sprintf("Applicant %03d", i), fmt.Sprintf("a%03d@example.org", i), nil)
	}
	return rows
}

func sheetRows(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	return rows
}

func TestWriteNominationsPagesPastListingCap(t *testing.T) {
	tenantID := uuid.New()
	scope, _ := auth.TenantScope(tenantID)
	repo := &stubNominationRepo{rows: seedNominations(tenantID, 250)}
	service := NewService(repo, &stubCandidacyRepo{})

	var buf bytes.Buffer
	if err := service.WriteNominations(context.Background(), scope, repository.ListOptions{}, &buf); err != nil {
		t.Fatalf("WriteNominations failed: %v", err)
	}

	rows := sheetRows(t, &buf)
	if len(rows) != 251 {
		t.Fatalf("rows = %d, want header plus all 250 matching rows", len(rows))
	}
	if rows[1][0] != repo.rows[0].ID.String() {
		t.Errorf("first row = %q, want %q", rows[1][0], repo.rows[0].ID)
	}
	if rows[250][0] != repo.rows[249].ID.String() {
		t.Errorf("last row = %q, want %q", rows[250][0], repo.rows[249].ID)
	}
	if repo.maxLimit > repository.MaxPageSize {
		t.Errorf("page limit = %d, must stay within the listing cap %d", repo.maxLimit, repository.MaxPageSize)
	}
}

func TestWriteNominationsHonorsCallerLimit(t *testing.T) {
	tenantID := uuid.New()
	scope, _ := auth.TenantScope(tenantID)
	repo := &stubNominationRepo{rows: seedNominations(tenantID, 250)}
	service := NewService(repo, &stubCandidacyRepo{})

	var buf bytes.Buffer
	opts := repository.ListOptions{Limit: 120}
	if err := service.WriteNominations(context.Background(), scope, opts, &buf); err != nil {
		t.Fatalf("WriteNominations failed: %v", err)
	}

	rows := sheetRows(t, &buf)
	if len(rows) != 121 {
		t.Errorf("rows = %d, want header plus the 120 requested rows", len(rows))
	}
}

func TestWritePageSizeClampedToListingCap(t *testing.T) {
	tenantID := uuid.New()
	scope, _ := auth.TenantScope(tenantID)
	repo := &stubNominationRepo{rows: seedNominations(tenantID, 150)}
	service := NewService(repo, &stubCandidacyRepo{}, WithPageSize(1000))

	var buf bytes.Buffer
	if err := service.WriteNominations(context.Background(), scope, repository.ListOptions{}, &buf); err != nil {
		t.Fatalf("WriteNominations failed: %v", err)
	}

	if repo.maxLimit > repository.MaxPageSize {
		t.Errorf("page limit = %d, WithPageSize must clamp to %d", repo.maxLimit, repository.MaxPageSize)
	}
	if rows := sheetRows(t, &buf); len(rows) != 151 {
		t.Errorf("rows = %d, want header plus all 150 matching rows", len(rows))
	}
}

func TestWriteCandidaciesStartsAtOffset(t *testing.T) {
	tenantID := uuid.New()
	scope, _ := auth.TenantScope(tenantID)
	electionID := uuid.New()
	repo := &stubCandidacyRepo{}
	for i := 0; i < 30; i++ {
		repo.rows = append(repo.rows, domain.NewCandidacy(tenantID, electionID, fmt.Sprintf("Candidate %02d", i)))
	}
	service := NewService(&stubNominationRepo{}, repo)

	var buf bytes.Buffer
	opts := repository.ListOptions{Offset: 10, Limit: 5}
	if err := service.WriteCandidacies(context.Background(), scope, opts, &buf); err != nil {
		t.Fatalf("WriteCandidacies failed: %v", err)
	}

	rows := sheetRows(t, &buf)
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want header plus 5", len(rows))
	}
	if rows[1][0] != repo.rows[10].ID.String() {
		t.Errorf("first row = %q, want the row at offset 10", rows[1][0])
	}
}
