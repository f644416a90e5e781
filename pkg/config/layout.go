package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/clawbrowser/pkg/layout"
)

const (
	// SectionIDLayout is the identifier for the layout settings section
	SectionIDLayout = "layout"

	defaultInspectorPollInterval = 250 * time.Millisecond
	defaultLockTimeout           = 2 * time.Second
)

// LayoutSection holds the fallback chrome geometry and the timing knobs of
// the tab engine.
type LayoutSection struct {
	SidePanelWidth        float64       `json:"side_panel_width"`
	TabListWidth          float64       `json:"tab_list_width"`
	NavBarHeight          float64       `json:"nav_bar_height"`
	InspectorPollInterval time.Duration `json:"inspector_poll_interval"`
	LockTimeout           time.Duration `json:"lock_timeout"`
	mu                    sync.RWMutex
}

// NewLayoutSection creates a layout section with default settings.
func NewLayoutSection() *LayoutSection {
	s := &LayoutSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *LayoutSection) ID() string {
	return SectionIDLayout
}

// Title returns the section title.
func (s *LayoutSection) Title() string {
	return "Layout"
}

// Description returns the section description.
func (s *LayoutSection) Description() string {
	return "Fallback chrome dimensions used before the UI reports content bounds, and tab engine timing."
}

// Data returns the current configuration data.
func (s *LayoutSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"side_panel_width":        s.SidePanelWidth,
		"tab_list_width":          s.TabListWidth,
		"nav_bar_height":          s.NavBarHeight,
		"inspector_poll_interval": s.InspectorPollInterval.String(),
		"lock_timeout":            s.LockTimeout.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *LayoutSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "side_panel_width", "tab_list_width", "nav_bar_height":
			n, ok := toFloat(value)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
			}
			switch key {
			case "side_panel_width":
				s.SidePanelWidth = n
			case "tab_list_width":
				s.TabListWidth = n
			default:
				s.NavBarHeight = n
			}

		case "inspector_poll_interval", "lock_timeout":
			d, err := toDuration(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			if key == "lock_timeout" {
				s.LockTimeout = d
			} else {
				s.InspectorPollInterval = d
			}

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *LayoutSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.SidePanelWidth < 0 || s.TabListWidth < 0 || s.NavBarHeight < 0 {
		return fmt.Errorf("chrome dimensions must not be negative")
	}
	if s.InspectorPollInterval < 50*time.Millisecond || s.InspectorPollInterval > 5*time.Second {
		return fmt.Errorf("inspector_poll_interval must be between 50ms and 5s, got %v", s.InspectorPollInterval)
	}
	if s.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive, got %v", s.LockTimeout)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *LayoutSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SidePanelWidth = layout.DefaultSidePanelWidth
	s.TabListWidth = layout.DefaultTabListWidth
	s.NavBarHeight = layout.DefaultNavBarHeight
	s.InspectorPollInterval = defaultInspectorPollInterval
	s.LockTimeout = defaultLockTimeout
}

// Chrome returns the fallback chrome geometry.
func (s *LayoutSection) Chrome() layout.Chrome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return layout.Chrome{
		SidePanelWidth: s.SidePanelWidth,
		TabListWidth:   s.TabListWidth,
		NavBarHeight:   s.NavBarHeight,
	}
}

// GetInspectorPollInterval returns how often inspector state is polled.
func (s *LayoutSection) GetInspectorPollInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.InspectorPollInterval
}

// GetLockTimeout returns how long an operation waits for the tab state.
func (s *LayoutSection) GetLockTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LockTimeout
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toDuration(value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		return time.ParseDuration(v)
	case float64:
		// JSON numbers come as float64
		return time.Duration(v), nil
	case int64:
		return time.Duration(v), nil
	case time.Duration:
		return v, nil
	default:
		return 0, fmt.Errorf("expected duration string or number, got %T", value)
	}
}
