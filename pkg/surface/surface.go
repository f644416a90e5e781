// Package surface owns the native content surfaces of the shell, one per tab.
//
// A Backend creates surfaces; the Registry keeps them by tab id together with
// the placement and visibility last requested for each, and turns the
// callbacks a surface raises (page load, navigation, new-window, page
// notifications) into shell events.
package surface

import (
	"context"

	"github.com/entrhq/clawbrowser/pkg/types"
)

// Surface is a native, independently rendered content view.
type Surface interface {
	// SetBounds moves and resizes the surface, in physical pixels.
	SetBounds(rect types.Rect) error

	Show() error
	Hide() error
	Focus() error

	// Eval injects code into the page without waiting for its result.
	Eval(code string) error

	// Navigate starts loading url. Completion is reported through Hooks.OnLoad.
	Navigate(url string) error

	// SetAutoResize toggles the platform's own resizing of the surface.
	SetAutoResize(enabled bool) error

	Close() error
}

// Hooks are installed on a surface when it is created. A backend may call
// them from any goroutine but never while holding its own locks.
type Hooks struct {
	// OnLoad is called when a page finished loading.
	OnLoad func(url string)

	// OnNavigate is called before a navigation; returning false cancels it.
	OnNavigate func(url string) bool

	// OnNewWindow is called when the page asks for a native window. The
	// backend always refuses the window itself.
	OnNewWindow func(url string)

	// OnNotify receives messages posted by injected scripts.
	OnNotify func(message map[string]interface{})
}

// Spec describes a surface to create.
type Spec struct {
	ID          string
	URL         string
	UserAgent   string
	InitScripts []string
	Bounds      types.Rect
	Hooks       Hooks
}

// Backend creates surfaces inside the host window.
type Backend interface {
	CreateSurface(ctx context.Context, spec Spec) (Surface, error)
}
