// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// Window describes the page actually served after clamping, plus the query
// bounds repositories use so full result sets are never materialized.
type Window struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	PageSize   int  `json:"page_size"`
	Offset     int  `json:"-"`
	Limit      int  `json:"-"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate resolves the requested page against a total item count.
// Requests beyond the last page clamp to it; requests below 1 resolve to
// page 1. An empty set is a single empty page.
func Paginate(total int64, pageSize, requested int) Window {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	page := requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Window{
		Page:       page,
		TotalPages: totalPages,
		PageSize:   pageSize,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ParsePage interprets a raw page query parameter. Missing, non-numeric, or
// non-positive values default to page 1; clamping to the last page happens
// later in Paginate once the total is known.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
