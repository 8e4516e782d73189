package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 9
	MaxPageSize     = 50
	MinPageSize     = 1

	SortByStartAt   = "startAt"
	SortByCreatedAt = "createdAt"
)

// CursorParams are the keyset pagination parameters of a list request
type CursorParams struct {
	Limit  int
	Cursor string
	SortBy string
	Desc   bool
}

// ClampLimit parses a limit, falling back to the default and clamping to [MinPageSize, MaxPageSize]
func ClampLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageSize
	}
	if limit < MinPageSize {
		return MinPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ParseSort normalizes the sort column and direction. Unknown values fall back to startAt ascending.
func ParseSort(sortBy, order string) (string, bool) {
	column := SortByStartAt
	if sortBy == SortByCreatedAt {
		column = SortByCreatedAt
	}
	return column, strings.EqualFold(order, "desc")
}

// ParseCursorParams extracts limit, cursor, sortBy and order from the query string
func ParseCursorParams(c *gin.Context) CursorParams {
	sortBy, desc := ParseSort(c.Query("sortBy"), c.Query("order"))
	return CursorParams{
		Limit:  ClampLimit(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize))),
		Cursor: strings.TrimSpace(c.Query("cursor")),
		SortBy: sortBy,
		Desc:   desc,
	}
}
