package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civica/electoral/internal/repository"
)

func TestListParamsDefaults(t *testing.T) {
	opts, page, perPage := listParams(httptest.NewRequest(http.MethodGet, "/elections", nil))

	if page != 1 || perPage != defaultPerPage {
		t.Errorf("page = %d, per_page = %d; want 1, %d", page, perPage, defaultPerPage)
	}
	if opts.Limit != defaultPerPage || opts.Offset != 0 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestListParamsClampsPerPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/elections?per_page=500&page=2", nil)
	opts, page, perPage := listParams(req)

	if perPage != repository.MaxPageSize {
		t.Errorf("per_page = %d, want clamped to %d", perPage, repository.MaxPageSize)
	}
	if opts.Limit != repository.MaxPageSize {
		t.Errorf("limit = %d, want %d", opts.Limit, repository.MaxPageSize)
	}
	if want := (page - 1) * repository.MaxPageSize; opts.Offset != want {
		t.Errorf("offset = %d, want %d so page 2 starts where page 1 ends", opts.Offset, want)
	}
}

func TestExportParamsDefaultsToEverything(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nominations/export?page=3", nil)
	opts := exportParams(req)

	if opts.Limit != 0 || opts.Offset != 0 {
		t.Errorf("opts = %+v, want the whole listing when per_page is absent", opts)
	}
}

func TestExportParamsHonorsPerPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nominations/export?per_page=50&page=2", nil)
	opts := exportParams(req)

	if opts.Limit != 50 || opts.Offset != 50 {
		t.Errorf("opts = %+v, want limit 50 offset 50", opts)
	}
}
