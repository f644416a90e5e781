package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDBrowser is the identifier for the browser host section
	SectionIDBrowser = "browser"

	// BackendMemory keeps surfaces in process without a real renderer.
	BackendMemory = "memory"
	// BackendPlaywright renders surfaces as Playwright pages.
	BackendPlaywright = "playwright"

	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
)

// BrowserSection configures the surface backend and the host window.
type BrowserSection struct {
	Backend      string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	ScaleFactor  float64
	Debug        bool
	mu           sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Host"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Surface backend (memory or playwright), host window geometry, and page instrumentation."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"backend":       s.Backend,
		"headless":      s.Headless,
		"window_width":  s.WindowWidth,
		"window_height": s.WindowHeight,
		"scale_factor":  s.ScaleFactor,
		"debug":         s.Debug,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if backend, ok := data["backend"].(string); ok {
		s.Backend = backend
	}
	if headless, ok := data["headless"].(bool); ok {
		s.Headless = headless
	}
	if debug, ok := data["debug"].(bool); ok {
		s.Debug = debug
	}
	if width, ok := toFloat(data["window_width"]); ok {
		s.WindowWidth = int(width)
	}
	if height, ok := toFloat(data["window_height"]); ok {
		s.WindowHeight = int(height)
	}
	if scale, ok := toFloat(data["scale_factor"]); ok {
		s.ScaleFactor = scale
	}

	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Backend != BackendMemory && s.Backend != BackendPlaywright {
		return fmt.Errorf("invalid backend: %s (must be %q or %q)", s.Backend, BackendMemory, BackendPlaywright)
	}
	if s.WindowWidth <= 0 || s.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", s.WindowWidth, s.WindowHeight)
	}
	if s.ScaleFactor <= 0 {
		return fmt.Errorf("scale_factor must be positive, got %v", s.ScaleFactor)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Backend = BackendMemory
	s.Headless = true
	s.WindowWidth = defaultWindowWidth
	s.WindowHeight = defaultWindowHeight
	s.ScaleFactor = 1.0
	s.Debug = false
}

// GetBackend returns the configured surface backend name.
func (s *BrowserSection) GetBackend() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Backend
}

// IsHeadless reports whether Playwright runs without a visible window.
func (s *BrowserSection) IsHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless
}

// WindowSize returns the host window interior in logical units and the scale.
func (s *BrowserSection) WindowSize() (width, height int, scale float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.WindowWidth, s.WindowHeight, s.ScaleFactor
}

// IsDebug reports whether page instrumentation is forced on.
func (s *BrowserSection) IsDebug() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Debug
}
