package config

import (
	"fmt"
	"sync"

	"github.com/gobwas/glob"
)

const (
	// SectionIDNavigation is the identifier for the navigation policy section
	SectionIDNavigation = "navigation"
)

// NavigationSection configures how open-in-new-tab requests are decided.
type NavigationSection struct {
	blockedURLs      []string
	newWindowInPlace bool
	mu               sync.RWMutex
}

// NewNavigationSection creates a navigation section with default settings.
func NewNavigationSection() *NavigationSection {
	return &NavigationSection{}
}

// ID returns the section identifier.
func (s *NavigationSection) ID() string {
	return SectionIDNavigation
}

// Title returns the section title.
func (s *NavigationSection) Title() string {
	return "Navigation Policy"
}

// Description returns the section description.
func (s *NavigationSection) Description() string {
	return "URLs or hosts matching blocked_urls glob patterns are never opened in a new tab. new_window_in_place follows window.open targets in the originating tab."
}

// Data returns the current configuration data.
func (s *NavigationSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocked := make([]interface{}, len(s.blockedURLs))
	for i, pattern := range s.blockedURLs {
		blocked[i] = pattern
	}

	return map[string]interface{}{
		"blocked_urls":        blocked,
		"new_window_in_place": s.newWindowInPlace,
	}
}

// SetData updates the configuration from the provided data.
func (s *NavigationSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := data["blocked_urls"]; ok {
		items, ok := raw.([]interface{})
		if !ok {
			return fmt.Errorf("invalid blocked_urls type: expected []interface{}, got %T", raw)
		}
		patterns := make([]string, 0, len(items))
		for i, item := range items {
			pattern, ok := item.(string)
			if !ok {
				return fmt.Errorf("invalid blocked_urls entry at index %d: expected string, got %T", i, item)
			}
			patterns = append(patterns, pattern)
		}
		s.blockedURLs = patterns
	}

	if raw, ok := data["new_window_in_place"]; ok {
		enabled, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("invalid value type for new_window_in_place: expected bool, got %T", raw)
		}
		s.newWindowInPlace = enabled
	}

	return nil
}

// Validate checks that every blocked pattern compiles.
func (s *NavigationSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pattern := range s.blockedURLs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid blocked_urls pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *NavigationSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockedURLs = nil
	s.newWindowInPlace = false
}

// BlockedURLs returns a copy of the blocked patterns.
func (s *NavigationSection) BlockedURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.blockedURLs...)
}

// SetBlockedURLs replaces the blocked patterns.
func (s *NavigationSection) SetBlockedURLs(patterns []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockedURLs = append([]string(nil), patterns...)
}

// NewWindowInPlace reports whether new-window requests navigate the origin tab.
func (s *NavigationSection) NewWindowInPlace() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newWindowInPlace
}

// SetNewWindowInPlace toggles in-place handling of new-window requests.
func (s *NavigationSection) SetNewWindowInPlace(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newWindowInPlace = enabled
}
