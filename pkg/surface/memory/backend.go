package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/entrhq/clawbrowser/pkg/layout"
	"github.com/entrhq/clawbrowser/pkg/surface"
	"github.com/entrhq/clawbrowser/pkg/types"
)

var (
	_ surface.Backend = (*Backend)(nil)
	_ layout.Window   = (*Window)(nil)
)

// Backend creates memory surfaces and keeps every one it ever created.
type Backend struct {
	mu         sync.Mutex
	surfaces   map[string]*Surface
	inspect    map[string]*InspectableSurface
	order      []string
	inspector  bool
	failCreate error
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithInspector makes new surfaces inspector capable.
func WithInspector() BackendOption {
	return func(b *Backend) {
		b.inspector = true
	}
}

// NewBackend creates an empty backend.
func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{
		surfaces: make(map[string]*Surface),
		inspect:  make(map[string]*InspectableSurface),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FailCreate makes later CreateSurface calls fail with err. Pass nil to recover.
func (b *Backend) FailCreate(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failCreate = err
}

// CreateSurface implements surface.Backend.
func (b *Backend) CreateSurface(ctx context.Context, spec surface.Spec) (surface.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failCreate != nil {
		return nil, b.failCreate
	}
	if spec.ID == "" {
		return nil, errors.New("surface id is required")
	}

	s := newSurface(spec)
	b.surfaces[spec.ID] = s
	b.order = append(b.order, spec.ID)

	if b.inspector {
		is := &InspectableSurface{Surface: s}
		b.inspect[spec.ID] = is
		return is, nil
	}
	return s, nil
}

// Surface returns a surface by tab id.
func (b *Backend) Surface(id string) (*Surface, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.surfaces[id]
	return s, ok
}

// Inspectable returns an inspector-capable surface by tab id.
func (b *Backend) Inspectable(id string) (*InspectableSurface, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.inspect[id]
	return s, ok
}

// Created returns the ids of every created surface, in creation order.
func (b *Backend) Created() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.order...)
}

// Window is a host window with a settable size and scale.
type Window struct {
	mu    sync.Mutex
	size  types.Size
	scale float64
	err   error
}

// NewWindow creates a window with an interior of width x height physical
// pixels.
func NewWindow(width, height int, scale float64) *Window {
	return &Window{
		size:  types.Size{Width: width, Height: height},
		scale: scale,
	}
}

// Resize changes the interior size.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = types.Size{Width: width, Height: height}
}

// SetScale changes the scale factor.
func (w *Window) SetScale(scale float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scale = scale
}

// FailWith makes measurements fail with err. Pass nil to recover.
func (w *Window) FailWith(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
}

// InnerSize implements layout.Window.
func (w *Window) InnerSize() (types.Size, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return types.Size{}, w.err
	}
	return w.size, nil
}

// ScaleFactor implements layout.Window.
func (w *Window) ScaleFactor() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return 0, w.err
	}
	return w.scale, nil
}
