package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/civica/electoral/internal/domain"
	"github.com/civica/electoral/internal/repository"
)

const defaultPerPage = 25

// listParams decodes the shared listing query parameters: search,
// advanced_filters (a JSON-encoded filter tree), sort, order, page and
// per_page. Malformed filter JSON degrades to no advanced filters.
func listParams(r *http.Request) (repository.ListOptions, int, int) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(q.Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > repository.MaxPageSize {
		perPage = repository.MaxPageSize
	}

	opts := repository.ListOptions{
		Filters: domain.ParseFilterGroup(q.Get("advanced_filters")),
		Search:  q.Get("search"),
		Sort: domain.Sort{
			Field:     q.Get("sort"),
			Direction: domain.ParseSortDirection(q.Get("order")),
		},
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}

	return opts, page, perPage
}

// exportParams decodes the listing parameters for an export endpoint. With
// no per_page the whole filtered listing is exported, not one default page.
func exportParams(r *http.Request) repository.ListOptions {
	opts, _, _ := listParams(r)
	if r.URL.Query().Get("per_page") == "" {
		opts.Limit = 0
		opts.Offset = 0
	}
	return opts
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func decodeBody(r *http.Request, into any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(into)
}
