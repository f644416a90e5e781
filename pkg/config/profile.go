package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/clawbrowser/pkg/types"
)

// Profile is a YAML startup profile: the tabs to open, an initial content
// bounds report and overrides for the browser section.
type Profile struct {
	// Backend overrides the browser section's backend when set.
	Backend string `yaml:"backend" json:"backend"`

	// Window overrides the host window geometry when non-zero.
	Window WindowProfile `yaml:"window" json:"window"`

	// ContentBounds is reported once after startup, as the chrome UI would.
	ContentBounds *types.ContentBounds `yaml:"content_bounds" json:"content_bounds"`

	// Tabs are opened in order; the last one ends up active.
	Tabs []string `yaml:"tabs" json:"tabs"`

	// Debug forces page instrumentation on.
	Debug bool `yaml:"debug" json:"debug"`
}

// WindowProfile is the host window geometry in logical units.
type WindowProfile struct {
	Width  int     `yaml:"width" json:"width"`
	Height int     `yaml:"height" json:"height"`
	Scale  float64 `yaml:"scale" json:"scale"`
}

// LoadProfile reads and validates a YAML profile.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate validates the profile.
func (p *Profile) Validate() error {
	if p.Backend != "" && p.Backend != BackendMemory && p.Backend != BackendPlaywright {
		return fmt.Errorf("invalid backend: %s (must be %q or %q)", p.Backend, BackendMemory, BackendPlaywright)
	}

	if p.Window.Width < 0 || p.Window.Height < 0 {
		return fmt.Errorf("window size cannot be negative")
	}
	if p.Window.Scale < 0 {
		return fmt.Errorf("window scale cannot be negative")
	}

	if b := p.ContentBounds; b != nil && (b.Width < 0 || b.Height < 0) {
		return fmt.Errorf("content_bounds size cannot be negative")
	}

	for i, raw := range p.Tabs {
		if raw == "" || raw == types.BlankURL {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" {
			return fmt.Errorf("invalid tab url at index %d: %q", i, raw)
		}
	}

	return nil
}

// Apply copies the profile's overrides onto the browser section.
func (p *Profile) Apply(browser *BrowserSection) {
	if browser == nil {
		return
	}

	browser.mu.Lock()
	defer browser.mu.Unlock()

	if p.Backend != "" {
		browser.Backend = p.Backend
	}
	if p.Window.Width > 0 {
		browser.WindowWidth = p.Window.Width
	}
	if p.Window.Height > 0 {
		browser.WindowHeight = p.Window.Height
	}
	if p.Window.Scale > 0 {
		browser.ScaleFactor = p.Window.Scale
	}
	if p.Debug {
		browser.Debug = true
	}
}
