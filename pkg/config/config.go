// Package config persists shell settings as named sections in a JSON file and
// reads the user's workspace settings.
package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)

	for _, section := range []Section{
		NewLayoutSection(),
		NewNavigationSection(),
		NewBrowserSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// reset drops the global manager; tests use it between cases.
func reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = nil
}

// GetLayout returns the layout section, or nil if config is not initialized.
func GetLayout() *LayoutSection {
	return globalSection[*LayoutSection](SectionIDLayout)
}

// GetNavigation returns the navigation section, or nil if config is not initialized.
func GetNavigation() *NavigationSection {
	return globalSection[*NavigationSection](SectionIDNavigation)
}

// GetBrowser returns the browser section, or nil if config is not initialized.
func GetBrowser() *BrowserSection {
	return globalSection[*BrowserSection](SectionIDBrowser)
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}

	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}

	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}
