package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_DefaultSections(t *testing.T) {
	t.Cleanup(reset)
	reset()

	assert.Nil(t, GetLayout())
	assert.False(t, IsInitialized())

	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "shell.json")))
	assert.True(t, IsInitialized())

	layoutSection := GetLayout()
	require.NotNil(t, layoutSection)
	chrome := layoutSection.Chrome()
	assert.Equal(t, 320.0, chrome.SidePanelWidth)
	assert.Equal(t, 200.0, chrome.TabListWidth)
	assert.Equal(t, 56.0, chrome.NavBarHeight)
	assert.Equal(t, 250*time.Millisecond, layoutSection.GetInspectorPollInterval())

	require.NotNil(t, GetNavigation())
	assert.Empty(t, GetNavigation().BlockedURLs())

	browser := GetBrowser()
	require.NotNil(t, browser)
	assert.Equal(t, BackendMemory, browser.GetBackend())
}

func TestInitialize_LoadsFile(t *testing.T) {
	t.Cleanup(reset)

	path := filepath.Join(t.TempDir(), "shell.json")
	doc := `{
  "version": "1.0",
  "sections": {
    "layout": {"nav_bar_height": 64, "inspector_poll_interval": "500ms"},
    "navigation": {"blocked_urls": ["*.ads.example.com"], "new_window_in_place": true},
    "browser": {"backend": "playwright", "window_width": 1440, "scale_factor": 2}
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
	require.NoError(t, Initialize(path))

	assert.Equal(t, 64.0, GetLayout().Chrome().NavBarHeight)
	assert.Equal(t, 500*time.Millisecond, GetLayout().GetInspectorPollInterval())
	assert.Equal(t, []string{"*.ads.example.com"}, GetNavigation().BlockedURLs())
	assert.True(t, GetNavigation().NewWindowInPlace())

	width, height, scale := GetBrowser().WindowSize()
	assert.Equal(t, 1440, width)
	assert.Equal(t, 800, height)
	assert.Equal(t, 2.0, scale)
	assert.Equal(t, BackendPlaywright, GetBrowser().GetBackend())
}

func TestGlobal_PanicsBeforeInitialize(t *testing.T) {
	t.Cleanup(reset)
	reset()
	assert.Panics(t, func() { Global() })
}

func TestPersistence_RoundTrip(t *testing.T) {
	t.Cleanup(reset)

	path := filepath.Join(t.TempDir(), "shell.json")
	require.NoError(t, Initialize(path))

	GetNavigation().SetBlockedURLs([]string{"https://tracker.example/*"})
	require.NoError(t, Global().SaveAll())

	reset()
	require.NoError(t, Initialize(path))
	assert.Equal(t, []string{"https://tracker.example/*"}, GetNavigation().BlockedURLs())
}
