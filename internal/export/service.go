package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/civica/electoral/internal/auth"
	"github.com/civica/electoral/internal/repository"
)

const sheetName = "Sheet1"

// Service produces XLSX exports of filtered listings. Rows are pulled from
// the repositories page by page and written through the excelize stream
// writer, so a large export never holds the full result set in memory.
type Service struct {
	nominations repository.NominationRepository
	candidacies repository.CandidacyRepository

	exportDir string
	pageSize  int
	now       func() time.Time
}

// Option customizes the export service.
type Option func(*Service)

// WithExportDirectory sets where SaveNominations and SaveCandidacies place
// their files.
func WithExportDirectory(dir string) Option {
	return func(s *Service) {
		if strings.TrimSpace(dir) != "" {
			s.exportDir = filepath.Clean(dir)
		}
	}
}

// WithPageSize overrides how many rows are fetched per repository page.
// Sizes above the repository's listing cap are clamped to it, because the
// pager treats a short page as end of data.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = min(size, repository.MaxPageSize)
		}
	}
}

// NewService creates the export service.
func NewService(
	nominations repository.NominationRepository,
	candidacies repository.CandidacyRepository,
	opts ...Option,
) *Service {
	service := &Service{
		nominations: nominations,
		candidacies: candidacies,
		exportDir:   filepath.Join(os.TempDir(), "electoral-exports"),
		pageSize:    repository.MaxPageSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// WriteNominations streams the filtered nomination listing to w as an XLSX
// workbook. The scope controls row visibility exactly as it does for List.
func (s *Service) WriteNominations(ctx context.Context, scope auth.Scope, opts repository.ListOptions, w io.Writer) error {
	headers := []string{"ID", "Election", "Applicant", "Email", "Status", "Review notes", "Submitted at", "Resolved at", "Answers", "Created at"}
	startOffset := max(opts.Offset, 0)
	return s.writeWorkbook(w, headers, func(sw *excelize.StreamWriter) (int, error) {
		return s.pageRows(ctx, func(page repository.ListOptions) (int, int, error) {
			nominations, total, err := s.nominations.List(ctx, scope, page)
			if err != nil {
				return 0, 0, err
			}
			for i, n := range nominations {
				row := []any{
					n.ID.String(),
					n.ElectionID.String(),
					n.ApplicantName,
					n.Email,
					string(n.Status),
					n.ReviewNotes,
					formatTimePtr(n.SubmittedAt),
					formatTimePtr(n.ResolvedAt),
					formatAnswers(n.Answers),
					n.CreatedAt.UTC().Format(time.RFC3339),
				}
				if err := writeRow(sw, page.Offset-startOffset+i+2, row); err != nil {
					return 0, 0, err
				}
			}
			return len(nominations), total, nil
		}, opts)
	})
}

// WriteCandidacies streams the filtered candidacy listing to w as an XLSX
// workbook.
func (s *Service) WriteCandidacies(ctx context.Context, scope auth.Scope, opts repository.ListOptions, w io.Writer) error {
	headers := []string{"ID", "Election", "Candidate", "List", "Position", "Status", "Status reason", "Created at"}
	startOffset := max(opts.Offset, 0)
	return s.writeWorkbook(w, headers, func(sw *excelize.StreamWriter) (int, error) {
		return s.pageRows(ctx, func(page repository.ListOptions) (int, int, error) {
			candidacies, total, err := s.candidacies.List(ctx, scope, page)
			if err != nil {
				return 0, 0, err
			}
			for i, c := range candidacies {
				row := []any{
					c.ID.String(),
					c.ElectionID.String(),
					c.CandidateName,
					c.ListName,
					c.Position,
					string(c.Status),
					c.StatusReason,
					c.CreatedAt.UTC().Format(time.RFC3339),
				}
				if err := writeRow(sw, page.Offset-startOffset+i+2, row); err != nil {
					return 0, 0, err
				}
			}
			return len(candidacies), total, nil
		}, opts)
	})
}

// SaveNominations writes the export into the configured export directory and
// returns the file path.
func (s *Service) SaveNominations(ctx context.Context, scope auth.Scope, opts repository.ListOptions) (string, error) {
	return s.saveToFile("nominations", func(f *os.File) error {
		return s.WriteNominations(ctx, scope, opts, f)
	})
}

// SaveCandidacies writes the export into the configured export directory and
// returns the file path.
func (s *Service) SaveCandidacies(ctx context.Context, scope auth.Scope, opts repository.ListOptions) (string, error) {
	return s.saveToFile("candidacies", func(f *os.File) error {
		return s.WriteCandidacies(ctx, scope, opts, f)
	})
}

type pageFunc func(page repository.ListOptions) (fetched int, total int, err error)

// pageRows walks the listing page by page starting from the caller's offset.
// The caller's limit caps the export when set; otherwise everything matching
// the filters is written.
func (s *Service) pageRows(ctx context.Context, fetch pageFunc, opts repository.ListOptions) (int, error) {
	requested := opts.Limit
	written := 0
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		limit := s.pageSize
		if requested > 0 {
			remaining := requested - written
			if remaining <= 0 {
				break
			}
			if remaining < limit {
				limit = remaining
			}
		}

		page := opts
		page.Limit = limit
		page.Offset = offset

		fetched, total, err := fetch(page)
		if err != nil {
			return written, err
		}
		written += fetched
		offset += fetched

		if fetched < limit {
			break
		}
		if requested == 0 && total > 0 && written >= total {
			break
		}
	}

	return written, nil
}

func (s *Service) writeWorkbook(w io.Writer, headers []string, fill func(*excelize.StreamWriter) (int, error)) error {
	wb := excelize.NewFile()
	defer func() {
		if err := wb.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close export workbook")
		}
	}()

	sw, err := wb.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = excelize.Cell{Value: h, StyleID: 0}
	}
	if err := writeRow(sw, 1, headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows, err := fill(sw)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush workbook: %w", err)
	}
	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	log.Debug().Int("rows", rows).Msg("export written")
	return nil
}

func (s *Service) saveToFile(base string, write func(*os.File) error) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure export directory: %w", err)
	}
	name := fmt.Sprintf("%s-%s.xlsx", base, s.now().UTC().Format("20060102-150405"))
	path := filepath.Join(s.exportDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func writeRow(sw *excelize.StreamWriter, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return sw.SetRow(cell, values)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatAnswers(answers map[string]any) string {
	if len(answers) == 0 {
		return ""
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return fmt.Sprintf("%v", answers)
	}
	return string(encoded)
}
