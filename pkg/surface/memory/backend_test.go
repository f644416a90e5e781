package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/clawbrowser/pkg/surface"
	"github.com/entrhq/clawbrowser/pkg/types"
)

func TestBackendCreateRecordsSpec(t *testing.T) {
	b := NewBackend()
	spec := surface.Spec{
		ID:          "a",
		URL:         "https://example.com",
		UserAgent:   "ua",
		InitScripts: []string{"x"},
		Bounds:      types.Rect{X: 1, Y: 2, Width: 3, Height: 4},
	}

	s, err := b.CreateSurface(context.Background(), spec)
	require.NoError(t, err)

	mem, ok := b.Surface("a")
	require.True(t, ok)
	assert.Same(t, mem, s)
	assert.Equal(t, spec.Bounds, mem.Bounds())
	assert.Equal(t, "https://example.com", mem.URL())
	assert.True(t, mem.IsVisible())
	assert.True(t, mem.AutoResize())
	assert.Equal(t, []string{"a"}, b.Created())

	_, isCapable := s.(*InspectableSurface)
	assert.False(t, isCapable)
}

func TestBackendWithInspector(t *testing.T) {
	b := NewBackend(WithInspector())
	s, err := b.CreateSurface(context.Background(), surface.Spec{ID: "a"})
	require.NoError(t, err)

	is, ok := s.(*InspectableSurface)
	require.True(t, ok)
	got, ok := b.Inspectable("a")
	require.True(t, ok)
	assert.Same(t, is, got)

	is.SetInspectorOpen(true)
	assert.True(t, is.InspectorOpen())
	require.NoError(t, is.DetachInspector())
	assert.Equal(t, 1, is.DetachCount())

	is.FailDetach(errors.New("unsupported"))
	assert.Error(t, is.DetachInspector())
	assert.Equal(t, 2, is.DetachCount())
}

func TestBackendCreateFailures(t *testing.T) {
	b := NewBackend()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.CreateSurface(ctx, surface.Spec{ID: "a"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = b.CreateSurface(context.Background(), surface.Spec{})
	assert.Error(t, err)

	boom := errors.New("boom")
	b.FailCreate(boom)
	_, err = b.CreateSurface(context.Background(), surface.Spec{ID: "a"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, b.Created())
}

func TestSurfaceRecordsOperations(t *testing.T) {
	s := newSurface(surface.Spec{ID: "a", URL: "about:blank"})

	rect := types.Rect{X: 10, Y: 20, Width: 30, Height: 40}
	require.NoError(t, s.SetBounds(rect))
	require.NoError(t, s.Hide())
	require.NoError(t, s.Focus())
	require.NoError(t, s.SetAutoResize(false))
	require.NoError(t, s.Eval("1+1"))
	require.NoError(t, s.Navigate("https://example.com"))

	assert.Equal(t, rect, s.Bounds())
	assert.False(t, s.IsVisible())
	assert.Equal(t, 1, s.FocusCount())
	assert.False(t, s.AutoResize())
	assert.Equal(t, []string{"1+1"}, s.Evals())
	assert.Equal(t, []string{"https://example.com"}, s.Navigations())
	assert.Equal(t, "https://example.com", s.URL())
}

func TestSurfaceFailWithAndClose(t *testing.T) {
	s := newSurface(surface.Spec{ID: "a"})
	boom := errors.New("boom")

	s.FailWith(boom)
	assert.ErrorIs(t, s.Show(), boom)
	assert.Empty(t, s.Evals())

	s.FailWith(nil)
	require.NoError(t, s.Close())
	assert.True(t, s.IsClosed())
	assert.ErrorIs(t, s.Eval("x"), ErrClosed)
	assert.ErrorIs(t, s.Close(), ErrClosed)
}

func TestSurfaceSimulateHooks(t *testing.T) {
	var loaded, navigated, opened []string
	var notes []map[string]interface{}
	s := newSurface(surface.Spec{
		ID: "a",
		Hooks: surface.Hooks{
			OnLoad:      func(url string) { loaded = append(loaded, url) },
			OnNavigate:  func(url string) bool { navigated = append(navigated, url); return url != "https://deny.example" },
			OnNewWindow: func(url string) { opened = append(opened, url) },
			OnNotify:    func(m map[string]interface{}) { notes = append(notes, m) },
		},
	})

	s.SimulateLoad("https://a.example")
	assert.True(t, s.SimulateNavigate("https://b.example"))
	assert.Equal(t, "https://b.example", s.URL())
	assert.False(t, s.SimulateNavigate("https://deny.example"))
	assert.Equal(t, "https://b.example", s.URL())
	s.SimulateNewWindow("https://c.example")
	s.SimulateNotify(map[string]interface{}{"channel": "debug"})

	assert.Equal(t, []string{"https://a.example"}, loaded)
	assert.Equal(t, []string{"https://b.example", "https://deny.example"}, navigated)
	assert.Equal(t, []string{"https://c.example"}, opened)
	assert.Len(t, notes, 1)
}

func TestSurfaceSimulateWithoutHooks(t *testing.T) {
	s := newSurface(surface.Spec{ID: "a"})
	assert.NotPanics(t, func() {
		s.SimulateLoad("x")
		assert.True(t, s.SimulateNavigate("x"))
		s.SimulateNewWindow("x")
		s.SimulateNotify(nil)
	})
}

func TestWindow(t *testing.T) {
	w := NewWindow(1000, 800, 1.0)

	size, err := w.InnerSize()
	require.NoError(t, err)
	assert.Equal(t, types.Size{Width: 1000, Height: 800}, size)

	w.Resize(1200, 900)
	w.SetScale(2)
	size, _ = w.InnerSize()
	scale, _ := w.ScaleFactor()
	assert.Equal(t, types.Size{Width: 1200, Height: 900}, size)
	assert.Equal(t, 2.0, scale)

	w.FailWith(errors.New("gone"))
	_, err = w.InnerSize()
	assert.Error(t, err)
	_, err = w.ScaleFactor()
	assert.Error(t, err)
}
