package pagination

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// Errors returned by the controller.
var (
	ErrTableNotFound   = errors.New("pagination: table not found")
	ErrInvalidPageSize = errors.New("pagination: page size not allowed")
	ErrNegativeCount   = errors.New("pagination: loader returned a negative count")
)

// Renderer writes an HTML fragment.
type Renderer interface {
	Render(w io.Writer) error
}

// Host is the view document a controller attaches its footer to.
type Host interface {
	Has(id string) bool
	InsertAfter(id string, r Renderer) error
}

// Result is one page returned by a Loader. Count is the total number of
// matching rows, independent of the window.
type Result[T any] struct {
	Rows  []T
	Count int
}

// Loader retrieves the rows in [offset, offset+limit) matching search.
// It must return an error rather than a partial result on failure.
type Loader[T any] func(ctx context.Context, offset, limit int, search string) (Result[T], error)

// Controller mediates between navigation events and a Loader for one table.
// It is safe for concurrent use.
type Controller[T any] struct {
	tableID string
	ids     ElementIDs
	loader  Loader[T]
	logger  *slog.Logger
	cfg     config

	mu     sync.Mutex
	state  State // committed by the last successful, current load
	target State // requested by the most recently issued load
	rows   []T
	issued uint64
}

// New attaches a controller to the table tableID in host, injects the footer
// right after it and performs the initial load. A failed initial load is
// logged and leaves the controller at its empty state.
func New[T any](ctx context.Context, host Host, tableID string, loader Loader[T], logger *slog.Logger, opts ...Option) (*Controller[T], error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if host == nil || !host.Has(tableID) {
		logger.ErrorContext(ctx, "pagination table not found", "table", tableID)
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, tableID)
	}
	if loader == nil {
		return nil, errors.New("pagination: nil loader")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.normalize(); err != nil {
		logger.ErrorContext(ctx, "invalid pagination options", "table", tableID, "initial_page_size", cfg.initialPageSize)
		return nil, err
	}

	c := &Controller[T]{
		tableID: tableID,
		ids:     IDsFor(tableID),
		loader:  loader,
		logger:  logger.With("table", tableID),
		cfg:     cfg,
	}
	c.state = State{PageSize: cfg.initialPageSize}
	c.target = c.state

	if err := host.InsertAfter(tableID, &footer[T]{c: c}); err != nil {
		logger.ErrorContext(ctx, "inject pagination footer", "table", tableID, "err", err)
		return nil, err
	}
	_ = c.LoadData(ctx)
	return c, nil
}

// LoadData reloads the current window with the current search term. It is the
// only path that refreshes the total count and the footer controls.
func (c *Controller[T]) LoadData(ctx context.Context) error {
	return c.issue(ctx, func(*State) bool { return true })
}

// UpdateSearchTerm replaces the search term, resets to the first page and reloads.
func (c *Controller[T]) UpdateSearchTerm(ctx context.Context, term string) error {
	return c.issue(ctx, func(s *State) bool {
		s.SearchTerm = term
		s.CurrentPage = 0
		return true
	})
}

// ChangePageSize selects a new page size, resets to the first page and reloads.
func (c *Controller[T]) ChangePageSize(ctx context.Context, size int) error {
	if !c.cfg.allows(size) {
		c.logger.WarnContext(ctx, "page size not allowed", "page_size", size)
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	return c.issue(ctx, func(s *State) bool {
		s.PageSize = size
		s.CurrentPage = 0
		return true
	})
}

// PrevPage moves one page back. It is a no-op on the first page.
func (c *Controller[T]) PrevPage(ctx context.Context) error {
	return c.issue(ctx, func(s *State) bool {
		if s.CurrentPage <= 0 {
			return false
		}
		s.CurrentPage--
		return true
	})
}

// NextPage moves one page forward. It is a no-op when the window already
// reaches the total record count.
func (c *Controller[T]) NextPage(ctx context.Context) error {
	return c.issue(ctx, func(s *State) bool {
		if (s.CurrentPage+1)*s.PageSize >= c.state.TotalRecords {
			return false
		}
		s.CurrentPage++
		return true
	})
}

// issue applies mutate to the requested state and, if it reports a change,
// runs the load for it. mutate runs with c.mu held.
func (c *Controller[T]) issue(ctx context.Context, mutate func(*State) bool) error {
	c.mu.Lock()
	next := c.target
	if !mutate(&next) {
		c.mu.Unlock()
		return nil
	}
	c.issued++
	token := c.issued
	c.target = next
	c.mu.Unlock()

	res, err := c.loader(ctx, next.Offset(), next.PageSize, next.SearchTerm)
	if err == nil && res.Count < 0 {
		err = fmt.Errorf("%w: %d", ErrNegativeCount, res.Count)
	}

	c.mu.Lock()
	if err != nil {
		if token == c.issued {
			c.target = c.state
		}
		c.mu.Unlock()
		c.logger.ErrorContext(ctx, "load paginated data",
			"offset", next.Offset(), "limit", next.PageSize, "search", next.SearchTerm, "err", err)
		return fmt.Errorf("load %s: %w", c.tableID, err)
	}
	if token != c.issued {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "discarding stale page", "token", token, "latest", c.issued)
		return nil
	}
	next.TotalRecords = res.Count
	c.state = next
	c.target = next
	c.rows = res.Rows
	last := lastPage(res.Count, next.PageSize)
	c.mu.Unlock()

	if next.CurrentPage <= last {
		return nil
	}
	// The table shrank under the current page: step back to the new last page.
	c.logger.DebugContext(ctx, "page past end, stepping back", "page", next.CurrentPage, "last", last)
	return c.issue(ctx, func(s *State) bool {
		if s.CurrentPage <= last {
			return false
		}
		s.CurrentPage = last
		return true
	})
}

// lastPage is the zero-based index of the last page holding any of count records.
func lastPage(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count+size-1)/size - 1
}

// State returns the committed paging state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rows returns a copy of the rows of the committed page.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.rows)
}

// Controls returns the footer controls for the committed state.
func (c *Controller[T]) Controls() Controls {
	return ControlsFor(c.State(), c.cfg.showTotalRecords)
}

// PageSizeOptions returns the selectable page sizes in ascending order.
func (c *Controller[T]) PageSizeOptions() []int {
	return slices.Clone(c.cfg.pageSizeOptions)
}

// TableID returns the identifier of the table the controller is attached to.
func (c *Controller[T]) TableID() string {
	return c.tableID
}

// IDs returns the footer element identifiers.
func (c *Controller[T]) IDs() ElementIDs {
	return c.ids
}
