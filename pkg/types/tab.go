package types

// DefaultTabTitle is the title of every freshly created tab.
const DefaultTabTitle = "New Tab"

// BlankURL is the canonical token for an empty page.
const BlankURL = "about:blank"

// TabInfo is the record kept for each open tab.
type TabInfo struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ContentBounds is the content area reported by the chrome UI, in logical
// units relative to the UI viewport origin.
type ContentBounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a physical pixel size.
type Size struct {
	Width  int
	Height int
}

// Rect is a physical pixel placement inside the host window.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// offscreenOrigin is the parking coordinate on both axes.
const offscreenOrigin = -10000

// OffscreenRect returns where inactive surfaces are parked. Zero size keeps
// them from intercepting input.
func OffscreenRect() Rect {
	return Rect{X: offscreenOrigin, Y: offscreenOrigin, Width: 0, Height: 0}
}

// IsOffscreen reports whether r is the parking placement.
func (r Rect) IsOffscreen() bool {
	return r == OffscreenRect()
}
