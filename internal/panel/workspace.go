package panel

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Workspace keeps the signed-in sessions and the single view each one has mounted.
type Workspace struct {
	registry *Registry
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	session *Session

	mu     sync.Mutex // serializes mounts for one session
	module string
	view   View
}

func NewWorkspace(registry *Registry, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workspace{registry: registry, logger: logger, now: time.Now, entries: map[string]*entry{}}
}

// Registry returns the modules the workspace mounts from.
func (w *Workspace) Registry() *Registry {
	return w.registry
}

// Attach registers s, replacing (and unmounting) any previous state for the same id.
// Sessions whose token has expired are dropped at the same time.
func (w *Workspace) Attach(s *Session) {
	w.mu.Lock()
	stale := w.sweepLocked(w.now())
	if old := w.entries[s.ID()]; old != nil {
		stale = append(stale, old)
	}
	w.entries[s.ID()] = &entry{session: s}
	w.mu.Unlock()
	for _, e := range stale {
		e.unmount()
	}
}

// sweepLocked removes the entries expired at now and returns them. w.mu must be held.
func (w *Workspace) sweepLocked(now time.Time) []*entry {
	var stale []*entry
	for id, e := range w.entries {
		if e.session.Expired(now) {
			delete(w.entries, id)
			stale = append(stale, e)
		}
	}
	if len(stale) > 0 {
		w.logger.Debug("expired sessions dropped", "count", len(stale))
	}
	return stale
}

// Session returns the attached session with id.
func (w *Workspace) Session(id string) (*Session, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Open unmounts the current view of s and mounts module, even when it is
// already the mounted one.
func (w *Workspace) Open(ctx context.Context, s *Session, module string) (View, error) {
	return w.mount(ctx, s, module, true)
}

// Current returns the mounted view when it belongs to module and mounts it otherwise.
func (w *Workspace) Current(ctx context.Context, s *Session, module string) (View, error) {
	return w.mount(ctx, s, module, false)
}

// Close unmounts the view of session id and forgets the session.
func (w *Workspace) Close(id string) {
	w.mu.Lock()
	e := w.entries[id]
	delete(w.entries, id)
	w.mu.Unlock()
	if e != nil {
		e.unmount()
	}
}

func (w *Workspace) mount(ctx context.Context, s *Session, module string, fresh bool) (View, error) {
	m, err := w.registry.Get(module)
	if err != nil {
		return nil, err
	}
	e := w.entryFor(s)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !fresh && e.view != nil && e.module == module {
		return e.view, nil
	}
	if e.view != nil {
		e.view.Unmount()
		e.view, e.module = nil, ""
	}
	v, err := m.Mount(ctx, e.session)
	if err != nil {
		w.logger.ErrorContext(ctx, "mount module", "module", module, "session", s.ID(), "err", err)
		return nil, err
	}
	e.view, e.module = v, module
	return v, nil
}

func (w *Workspace) entryFor(s *Session) *entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[s.ID()]
	if !ok {
		e = &entry{session: s}
		w.entries[s.ID()] = e
	}
	return e
}

func (e *entry) unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view != nil {
		e.view.Unmount()
		e.view, e.module = nil, ""
	}
}
