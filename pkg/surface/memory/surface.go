// Package memory is an in-process surface backend. Surfaces record every
// command they receive and never render anything; page events are raised
// explicitly with the Simulate methods.
package memory

import (
	"errors"
	"sync"

	"github.com/entrhq/clawbrowser/pkg/surface"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// ErrClosed is returned by operations on a closed surface.
var ErrClosed = errors.New("surface closed")

// Surface is a recording surface.
type Surface struct {
	mu          sync.Mutex
	spec        surface.Spec
	bounds      types.Rect
	visible     bool
	focusCount  int
	autoResize  bool
	url         string
	evals       []string
	navigations []string
	closed      bool
	failWith    error
}

func newSurface(spec surface.Spec) *Surface {
	return &Surface{
		spec:       spec,
		bounds:     spec.Bounds,
		visible:    true,
		autoResize: true,
		url:        spec.URL,
	}
}

// FailWith makes every later operation return err. Pass nil to recover.
func (s *Surface) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *Surface) do(op func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.failWith != nil {
		return s.failWith
	}
	op()
	return nil
}

func (s *Surface) SetBounds(rect types.Rect) error {
	return s.do(func() { s.bounds = rect })
}

func (s *Surface) Show() error {
	return s.do(func() { s.visible = true })
}

func (s *Surface) Hide() error {
	return s.do(func() { s.visible = false })
}

func (s *Surface) Focus() error {
	return s.do(func() { s.focusCount++ })
}

func (s *Surface) Eval(code string) error {
	return s.do(func() { s.evals = append(s.evals, code) })
}

func (s *Surface) Navigate(url string) error {
	return s.do(func() {
		s.navigations = append(s.navigations, url)
		s.url = url
	})
}

func (s *Surface) SetAutoResize(enabled bool) error {
	return s.do(func() { s.autoResize = enabled })
}

func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}

// Spec returns the spec the surface was created with.
func (s *Surface) Spec() surface.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Bounds returns the last applied bounds.
func (s *Surface) Bounds() types.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// IsVisible reports whether the surface is shown.
func (s *Surface) IsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// FocusCount returns how many times Focus succeeded.
func (s *Surface) FocusCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusCount
}

// AutoResize reports the native auto-resize flag.
func (s *Surface) AutoResize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoResize
}

// URL returns the last URL the surface was created with or navigated to.
func (s *Surface) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Evals returns the injected code, in order.
func (s *Surface) Evals() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.evals...)
}

// Navigations returns the navigated URLs, in order.
func (s *Surface) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigations...)
}

// IsClosed reports whether Close was called.
func (s *Surface) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SimulateLoad raises the page-load hook.
func (s *Surface) SimulateLoad(url string) {
	if hook := s.Spec().Hooks.OnLoad; hook != nil {
		hook(url)
	}
}

// SimulateNavigate raises the navigation hook and returns whether the
// navigation was allowed.
func (s *Surface) SimulateNavigate(url string) bool {
	hook := s.Spec().Hooks.OnNavigate
	if hook == nil {
		return true
	}
	allowed := hook(url)
	if allowed {
		s.mu.Lock()
		s.url = url
		s.mu.Unlock()
	}
	return allowed
}

// SimulateNewWindow raises the new-window hook. The native window is never
// opened.
func (s *Surface) SimulateNewWindow(url string) {
	if hook := s.Spec().Hooks.OnNewWindow; hook != nil {
		hook(url)
	}
}

// SimulateNotify delivers a message as if posted by an injected script.
func (s *Surface) SimulateNotify(message map[string]interface{}) {
	if hook := s.Spec().Hooks.OnNotify; hook != nil {
		hook(message)
	}
}

// InspectableSurface is a Surface with an embedded inspector panel.
type InspectableSurface struct {
	*Surface

	inspectorMu   sync.Mutex
	inspectorOpen bool
	detached      int
	detachErr     error
}

// SetInspectorOpen opens or closes the embedded inspector.
func (s *InspectableSurface) SetInspectorOpen(open bool) {
	s.inspectorMu.Lock()
	defer s.inspectorMu.Unlock()
	s.inspectorOpen = open
}

// FailDetach makes DetachInspector return err.
func (s *InspectableSurface) FailDetach(err error) {
	s.inspectorMu.Lock()
	defer s.inspectorMu.Unlock()
	s.detachErr = err
}

// InspectorOpen reports whether the embedded inspector is showing.
func (s *InspectableSurface) InspectorOpen() bool {
	s.inspectorMu.Lock()
	defer s.inspectorMu.Unlock()
	return s.inspectorOpen
}

// DetachInspector moves the inspector into its own window. The inspector
// stays open.
func (s *InspectableSurface) DetachInspector() error {
	s.inspectorMu.Lock()
	defer s.inspectorMu.Unlock()
	s.detached++
	return s.detachErr
}

// DetachCount returns how many times DetachInspector was called.
func (s *InspectableSurface) DetachCount() int {
	s.inspectorMu.Lock()
	defer s.inspectorMu.Unlock()
	return s.detached
}
