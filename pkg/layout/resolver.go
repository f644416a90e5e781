package layout

import (
	"fmt"
	"math"

	"github.com/entrhq/clawbrowser/pkg/types"
)

// Fallback chrome dimensions in logical units.
const (
	DefaultSidePanelWidth = 320.0
	DefaultTabListWidth   = 200.0
	DefaultNavBarHeight   = 56.0
)

// Window is the host window as seen by the resolver.
type Window interface {
	// InnerSize returns the interior size in physical pixels.
	InnerSize() (types.Size, error)

	// ScaleFactor returns physical pixels per logical unit.
	ScaleFactor() (float64, error)
}

// Chrome holds the fallback layout used before the UI reports bounds.
type Chrome struct {
	SidePanelWidth float64
	TabListWidth   float64
	NavBarHeight   float64
}

// DefaultChrome returns the built-in fallback layout.
func DefaultChrome() Chrome {
	return Chrome{
		SidePanelWidth: DefaultSidePanelWidth,
		TabListWidth:   DefaultTabListWidth,
		NavBarHeight:   DefaultNavBarHeight,
	}
}

// Origin returns the fallback logical left/top of the content area.
func (c Chrome) Origin() (left, top float64) {
	return c.SidePanelWidth + c.TabListWidth, c.NavBarHeight
}

// State is the slice of registry state the resolver reads.
type State struct {
	// Bounds is the last UI report, nil until the first one.
	Bounds *types.ContentBounds

	// ChromeYOffset is the latched gap between the window interior and the
	// UI viewport, in logical units.
	ChromeYOffset float64
}

// LayoutError reports that the window could not be measured.
type LayoutError struct {
	Op  string
	Err error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout: failed to read window %s: %v", e.Op, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// Metrics is a single measurement of the host window.
type Metrics struct {
	Inner types.Size
	Scale float64
}

// Measure reads size and scale from the window.
func Measure(window Window) (Metrics, error) {
	if window == nil {
		return Metrics{}, &LayoutError{Op: "size", Err: types.ErrWindowMissing}
	}
	inner, err := window.InnerSize()
	if err != nil {
		return Metrics{}, &LayoutError{Op: "size", Err: err}
	}
	scale, err := window.ScaleFactor()
	if err != nil {
		return Metrics{}, &LayoutError{Op: "scale factor", Err: err}
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return Metrics{}, &LayoutError{Op: "scale factor", Err: fmt.Errorf("unusable scale factor %v", scale)}
	}
	return Metrics{Inner: inner, Scale: scale}, nil
}

// Resolve computes the physical placement of the active surface.
func Resolve(state State, window Window, chrome Chrome) (types.Rect, error) {
	metrics, err := Measure(window)
	if err != nil {
		return types.Rect{}, err
	}
	return ResolveWith(state, metrics, chrome), nil
}

// ResolveWith is Resolve over an already taken measurement.
func ResolveWith(state State, metrics Metrics, chrome Chrome) types.Rect {
	left, top := chrome.Origin()
	if state.Bounds != nil {
		left, top = state.Bounds.Left, state.Bounds.Top
	}

	x := toPixels(left * metrics.Scale)
	y := toPixels((top + state.ChromeYOffset) * metrics.Scale)

	return types.Rect{
		X:      x,
		Y:      y,
		Width:  clampMin(metrics.Inner.Width-x, 0),
		Height: clampMin(metrics.Inner.Height-y, 0),
	}
}

// ChromeOffset computes the gap between the window interior height and the
// bottom of the reported content area, in logical units, never negative.
func ChromeOffset(window Window, bounds types.ContentBounds) (float64, error) {
	metrics, err := Measure(window)
	if err != nil {
		return 0, err
	}
	return ChromeOffsetWith(metrics, bounds), nil
}

// ChromeOffsetWith is ChromeOffset over an already taken measurement.
func ChromeOffsetWith(metrics Metrics, bounds types.ContentBounds) float64 {
	innerHeight := float64(metrics.Inner.Height) / metrics.Scale
	viewportHeight := bounds.Top + bounds.Height
	return math.Max(0, innerHeight-viewportHeight)
}

// maxPixel caps physical coordinates so that any finite logical value
// converts to an int without overflow.
const maxPixel = math.MaxInt32

// toPixels rounds a physical coordinate and clamps it to [0, maxPixel].
// NaN maps to zero.
func toPixels(v float64) int {
	v = math.Round(v)
	if !(v > 0) {
		return 0
	}
	if v > maxPixel {
		return maxPixel
	}
	return int(v)
}

func clampMin(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
