package panel

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"adminpanel/internal/pagination"
)

// ErrNodeNotFound is returned by InsertAfter when the anchor id is absent.
var ErrNodeNotFound = errors.New("panel: node not found")

// RendererFunc adapts a function to pagination.Renderer.
type RendererFunc func(w io.Writer) error

func (f RendererFunc) Render(w io.Writer) error { return f(w) }

type node struct {
	id string
	r  pagination.Renderer
}

// Document is the ordered tree of render nodes behind one mounted view. Nodes
// inserted with InsertAfter are anonymous.
type Document struct {
	mu    sync.RWMutex
	nodes []node
}

func NewDocument() *Document {
	return &Document{}
}

// Append adds an identified node at the end of the document.
func (d *Document) Append(id string, r pagination.Renderer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes = append(d.nodes, node{id: id, r: r})
}

func (d *Document) Has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.index(id) >= 0
}

// InsertAfter places r immediately after the node id.
func (d *Document) InsertAfter(id string, r pagination.Renderer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	d.nodes = slices.Insert(d.nodes, i+1, node{r: r})
	return nil
}

// Len returns the number of nodes, anonymous ones included.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes)
}

// Render writes every node in order and stops at the first error.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, n := range d.nodes {
		if err := n.r.Render(w); err != nil {
			if n.id != "" {
				return fmt.Errorf("render %s: %w", n.id, err)
			}
			return err
		}
	}
	return nil
}

func (d *Document) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(d.nodes, func(n node) bool { return n.id == id })
}
