package domain

// PaginationParams holds page-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageQuery is an offset/limit window over an ordered, optionally filtered result set.
type PageQuery struct {
	Offset int
	Limit  int
	Search string
}

// Query converts page-based params into a PageQuery.
func (p PaginationParams) Query(search string) PageQuery {
	return PageQuery{Offset: p.Offset(), Limit: p.PageSize, Search: search}
}

// Page is one window of rows plus the total number of rows matching the filter.
type Page[T any] struct {
	Rows  []T `json:"rows"`
	Count int `json:"count"`
}
