package utils

import (
	"strconv"
)

// Pagination is a resolved page/limit pair (1-based page).
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// ParsePagination reads ?page= and ?limit=; bad or missing values fall back to
// page 1 and defaultLimit, limit is capped at maxLimit.
func ParsePagination(pageStr, limitStr string, defaultLimit, maxLimit int) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}
