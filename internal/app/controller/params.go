package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	apperrors "github.com/ikkim/ratehub-backend/internal/errors"
)

// parseListParams reads the common paging/sorting/search query parameters.
// Validation against the collection's sort allow-list happens in the service.
func parseListParams(c *gin.Context) repository.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	return repository.ListParams{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Search:    c.Query("search"),
	}
}

// parseIDParam reads a positive integer path parameter. A zero return means
// the error response has already been written.
func parseIDParam(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0
	}
	return uint(id)
}

// respondSortError maps a rejected sort request to a 400; returns false when
// the error was something else.
func respondSortError(c *gin.Context, err error) bool {
	if errors.Is(err, repository.ErrInvalidSortField) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidSortField, "Requested sort field is not allowed")
		return true
	}
	if errors.Is(err, repository.ErrInvalidSortOrder) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Sort order must be asc or desc")
		return true
	}
	return false
}
