// Package layout resolves where the active content surface sits inside the
// host window.
//
// Two producers of layout truth feed the resolver: the host window, which
// reports its live interior size in physical pixels, and the chrome UI, which
// reports the content rectangle in logical units whenever it re-renders. The
// resolver takes the origin from the (possibly stale) UI report and the size
// from the live window measurement, so a continuous resize never leaves a gap
// even when the UI report lags behind.
//
// Until the UI reports bounds at least once, a fixed fallback chrome layout is
// used (side panel + tab list on the left, nav bar on top).
package layout
