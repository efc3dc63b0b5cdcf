package repository

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	ErrInvalidSortField = errors.New("sort field is not allowed for this collection")
	ErrInvalidSortOrder = errors.New("sort order must be asc or desc")
)

// Sort field allow-lists per collection. Anything outside the list is
// rejected up front so a raw query parameter can never reach an ORDER BY
// clause, and a typo never silently degrades into a default sort.

// SortByAverageRating is the one derived sort field on stores. It forces the
// aggregate query path: stats are computed and ordered globally before the
// page is sliced.
const SortByAverageRating = "average_rating"

var (
	UserSortFields = map[string]bool{
		"name":       true,
		"email":      true,
		"address":    true,
		"role":       true,
		"created_at": true,
	}

	StoreSortFields = map[string]bool{
		"name":              true,
		"email":             true,
		"address":           true,
		"created_at":        true,
		SortByAverageRating: true,
	}

	RatingSortFields = map[string]bool{
		"rating":     true,
		"created_at": true,
		"updated_at": true,
	}

	// Raters of a store, sortable by joined user fields or the rating itself.
	RaterSortFields = map[string]bool{
		"name":       true,
		"email":      true,
		"rating":     true,
		"created_at": true,
	}
)

// ListParams carries the common paging/sorting/search request for all
// collection listings.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
}

// Normalize applies defaults and clamps the limit to [1, MaxLimit].
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
	return p
}

// Validate checks the sort field against the collection allow-list and the
// sort order against asc|desc.
func (p ListParams) Validate(allowedSortFields map[string]bool) error {
	if p.SortBy != "" && !allowedSortFields[p.SortBy] {
		return fmt.Errorf("%w: %s", ErrInvalidSortField, p.SortBy)
	}
	if p.SortOrder != "" && p.SortOrder != "asc" && p.SortOrder != "desc" {
		return fmt.Errorf("%w: %s", ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

// Offset returns the number of rows to skip for the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause builds the ORDER BY clause from the already-validated params.
// The secondary id ordering keeps pages stable when the sort key ties.
func (p ListParams) OrderClause() string {
	direction := "DESC"
	if strings.EqualFold(p.SortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, id ASC", p.SortBy, direction)
}

// Pagination is the metadata returned alongside every collection listing.
// TotalCount reflects the filter, never the page slice.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// NewPagination computes the pagination metadata for a page request.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
