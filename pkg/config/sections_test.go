package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutSection_SetData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr bool
		check   func(t *testing.T, s *LayoutSection)
	}{
		{
			name: "numbers and durations",
			data: map[string]interface{}{
				"side_panel_width": 300.0,
				"tab_list_width":   180,
				"lock_timeout":     "750ms",
			},
			check: func(t *testing.T, s *LayoutSection) {
				assert.Equal(t, 300.0, s.Chrome().SidePanelWidth)
				assert.Equal(t, 180.0, s.Chrome().TabListWidth)
				assert.Equal(t, 750*time.Millisecond, s.GetLockTimeout())
			},
		},
		{
			name:    "wrong width type",
			data:    map[string]interface{}{"nav_bar_height": "tall"},
			wantErr: true,
		},
		{
			name:    "bad duration",
			data:    map[string]interface{}{"inspector_poll_interval": "soon"},
			wantErr: true,
		},
		{
			name: "unknown keys ignored",
			data: map[string]interface{}{"future_setting": true},
			check: func(t *testing.T, s *LayoutSection) {
				assert.NoError(t, s.Validate())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := NewLayoutSection()
			err := section.SetData(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, section)
		})
	}
}

func TestLayoutSection_Validate(t *testing.T) {
	section := NewLayoutSection()
	require.NoError(t, section.Validate())

	require.NoError(t, section.SetData(map[string]interface{}{"inspector_poll_interval": "10ms"}))
	assert.Error(t, section.Validate())

	section.Reset()
	require.NoError(t, section.SetData(map[string]interface{}{"side_panel_width": -1.0}))
	assert.Error(t, section.Validate())
}

func TestNavigationSection(t *testing.T) {
	section := NewNavigationSection()

	require.NoError(t, section.SetData(map[string]interface{}{
		"blocked_urls":        []interface{}{"*.doubleclick.net", "https://evil.example/*"},
		"new_window_in_place": true,
	}))
	assert.Equal(t, []string{"*.doubleclick.net", "https://evil.example/*"}, section.BlockedURLs())
	assert.True(t, section.NewWindowInPlace())
	assert.NoError(t, section.Validate())

	section.SetBlockedURLs([]string{"[unterminated"})
	assert.Error(t, section.Validate())

	assert.Error(t, section.SetData(map[string]interface{}{"blocked_urls": "nope"}))
	assert.Error(t, section.SetData(map[string]interface{}{"blocked_urls": []interface{}{42}}))

	section.Reset()
	assert.Empty(t, section.BlockedURLs())
	assert.False(t, section.NewWindowInPlace())
}

func TestBrowserSection(t *testing.T) {
	section := NewBrowserSection()
	require.NoError(t, section.Validate())
	assert.True(t, section.IsHeadless())

	require.NoError(t, section.SetData(map[string]interface{}{
		"backend":       "playwright",
		"headless":      false,
		"window_height": 900.0,
		"debug":         true,
	}))
	assert.Equal(t, BackendPlaywright, section.GetBackend())
	assert.False(t, section.IsHeadless())
	assert.True(t, section.IsDebug())
	_, height, _ := section.WindowSize()
	assert.Equal(t, 900, height)

	require.NoError(t, section.SetData(map[string]interface{}{"backend": "webkit1"}))
	assert.Error(t, section.Validate())
}
