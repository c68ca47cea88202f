package pagination

import "slices"

// Defaults used when no option overrides them.
const (
	DefaultPageSize = 5
)

// DefaultPageSizeOptions is the ordered set of selectable page sizes.
var DefaultPageSizeOptions = []int{5, 10, 25, 50, 100}

type config struct {
	initialPageSize  int
	pageSizeOptions  []int
	showTotalRecords bool
	showPageNumbers  bool
	formAction       string
}

func defaultConfig() config {
	return config{
		initialPageSize:  DefaultPageSize,
		pageSizeOptions:  slices.Clone(DefaultPageSizeOptions),
		showTotalRecords: true,
	}
}

// Option overrides a controller default.
type Option func(*config)

// WithInitialPageSize sets the page size used before the user picks one.
func WithInitialPageSize(n int) Option {
	return func(c *config) { c.initialPageSize = n }
}

// WithPageSizeOptions sets the selectable page sizes.
func WithPageSizeOptions(sizes ...int) Option {
	return func(c *config) { c.pageSizeOptions = slices.Clone(sizes) }
}

// WithTotalRecords toggles the "de Z entradas" part of the info label.
func WithTotalRecords(show bool) Option {
	return func(c *config) { c.showTotalRecords = show }
}

// WithPageNumbers is reserved; numbered page links are not rendered yet.
func WithPageNumbers(show bool) Option {
	return func(c *config) { c.showPageNumbers = show }
}

// WithFormAction sets the URL the footer form posts its navigation events to.
func WithFormAction(path string) Option {
	return func(c *config) { c.formAction = path }
}

// normalize validates sizes and makes sure the initial size is selectable.
func (c *config) normalize() error {
	if c.initialPageSize <= 0 {
		return ErrInvalidPageSize
	}
	sizes := c.pageSizeOptions[:0]
	for _, n := range c.pageSizeOptions {
		if n > 0 {
			sizes = append(sizes, n)
		}
	}
	if !slices.Contains(sizes, c.initialPageSize) {
		sizes = append(sizes, c.initialPageSize)
	}
	slices.Sort(sizes)
	c.pageSizeOptions = slices.Compact(sizes)
	return nil
}

func (c *config) allows(n int) bool {
	return slices.Contains(c.pageSizeOptions, n)
}
