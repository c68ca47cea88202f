// Package panel implements the server-rendered admin panel: a registry of
// modules (home, usuarios, sucursales), the views they mount, and a
// per-session workspace that keeps one mounted view at a time.
package panel

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"adminpanel/internal/domain"
	"adminpanel/internal/pagination"
)

// ErrModuleNotFound is returned for an unregistered module name.
var ErrModuleNotFound = errors.New("panel: module not found")

// Module builds a view for a session.
type Module interface {
	Name() string
	Title() string
	Icon() string
	Mount(ctx context.Context, s *Session) (View, error)
}

// View is a mounted module. It owns its state until Unmount.
type View interface {
	Title() string
	Document() *Document
	HeaderActions() []Action
	// Flash returns the pending message and clears it.
	Flash() *Flash
	Unmount()
}

// Pager is the navigation surface of a pagination.Controller.
type Pager interface {
	LoadData(ctx context.Context) error
	UpdateSearchTerm(ctx context.Context, term string) error
	ChangePageSize(ctx context.Context, size int) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	State() pagination.State
}

// Pageable is implemented by views with a paginated table.
type Pageable interface {
	Pager() Pager
}

// Editor is implemented by views with a create/edit form.
type Editor interface {
	OpenNew(ctx context.Context) error
	OpenEdit(ctx context.Context, id string) error
	CloseForm()
	Save(ctx context.Context, f Form) error
	Delete(ctx context.Context, id string) error
}

// Failer is implemented by views that can flash an error raised outside them.
type Failer interface {
	Fail(err error)
}

// Form is a submitted create/edit form.
type Form struct {
	Values url.Values
	Avatar *domain.Upload
}

// Registry holds the modules in navigation order.
type Registry struct {
	order  []Module
	byName map[string]Module
}

func NewRegistry(modules ...Module) *Registry {
	r := &Registry{byName: make(map[string]Module, len(modules))}
	for _, m := range modules {
		if _, dup := r.byName[m.Name()]; dup {
			continue
		}
		r.order = append(r.order, m)
		r.byName[m.Name()] = m
	}
	return r
}

func (r *Registry) Get(name string) (Module, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, name)
	}
	return m, nil
}

// Modules returns the registered modules in navigation order.
func (r *Registry) Modules() []Module {
	return append([]Module(nil), r.order...)
}

// serviceLoader adapts a service List method to a pagination.Loader. onErr is
// called with every failed load.
func serviceLoader[T any](list func(context.Context, domain.PageQuery) (*domain.Page[T], error), onErr func(error)) pagination.Loader[T] {
	return func(ctx context.Context, offset, limit int, search string) (pagination.Result[T], error) {
		page, err := list(ctx, domain.PageQuery{Offset: offset, Limit: limit, Search: search})
		if err != nil {
			onErr(err)
			return pagination.Result[T]{}, err
		}
		return pagination.Result[T]{Rows: page.Rows, Count: page.Count}, nil
	}
}
