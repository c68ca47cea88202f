// Package pagination attaches offset/limit paging and search filtering to a
// table in a panel view.
//
// A Controller owns the paging state of one table (current page, page size,
// total records, search term) and delegates row retrieval to a caller-supplied
// Loader. All transitions funnel through a single load path; a transition is
// committed only when its load succeeds, and completions that were superseded
// by a newer load are discarded.
package pagination
