package helpers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"adminpanel/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing or
// invalid values fall back to the defaults and page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     atLeast(q, "page", 1, DefaultPage),
		PageSize: min(atLeast(q, "page_size", 1, DefaultPageSize), MaxPageSize),
	}
}

// ParsePageQuery reads a list window from the query string. offset and limit
// take precedence over page and page_size; search is trimmed.
func ParsePageQuery(r *http.Request) domain.PageQuery {
	q := r.URL.Query()
	search := strings.TrimSpace(q.Get("search"))
	if !q.Has("offset") && !q.Has("limit") {
		return ParsePagination(r).Query(search)
	}
	return domain.PageQuery{
		Offset: atLeast(q, "offset", 0, 0),
		Limit:  min(atLeast(q, "limit", 1, DefaultPageSize), MaxPageSize),
		Search: search,
	}
}

// atLeast parses q[key] as an int no smaller than floor, or returns def.
func atLeast(q url.Values, key string, floor, def int) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil || v < floor {
		return def
	}
	return v
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size, and total count.
// TotalPages is computed as ceiling(total / pageSize); if pageSize is 0, TotalPages is 0.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// MetaFor builds PaginationMeta for an offset/limit window.
func MetaFor(q domain.PageQuery, total int) PaginationMeta {
	page := 1
	if q.Limit > 0 {
		page = q.Offset/q.Limit + 1
	}
	return NewPaginationMeta(page, q.Limit, total)
}
