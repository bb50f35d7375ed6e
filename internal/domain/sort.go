package domain

import "strings"

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// Sort captures ordering preferences for a listing. The field is validated
// against the same allow-list as filter fields before it reaches SQL.
type Sort struct {
	Field     string
	Direction SortDirection
}

// ParseSortDirection folds arbitrary client input to asc/desc, defaulting to asc.
func ParseSortDirection(raw string) SortDirection {
	if strings.EqualFold(raw, string(SortDirectionDesc)) {
		return SortDirectionDesc
	}
	return SortDirectionAsc
}
