package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/entrhq/clawbrowser/pkg/config"
	"github.com/entrhq/clawbrowser/pkg/ipc"
	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/types"
)

func setupShell(t *testing.T, profile *appconfig.Profile) *shell {
	t.Helper()
	logging.Configure(t.TempDir(), logging.LevelOff)
	t.Cleanup(func() { _ = logging.Close() })

	require.NoError(t, appconfig.Initialize(filepath.Join(t.TempDir(), "shell.json")))

	sh, err := newShell(&Config{LogLevel: "off"}, profile)
	require.NoError(t, err)
	t.Cleanup(sh.close)
	return sh
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (&Config{LogLevel: "info"}).validate())
	assert.Error(t, (&Config{Backend: "webkit", LogLevel: "info"}).validate())
	assert.Error(t, (&Config{LogLevel: "loud"}).validate())
	assert.Error(t, (&Config{LogLevel: "info", ProfilePath: filepath.Join(t.TempDir(), "missing.yaml")}).validate())
	assert.Error(t, (&Config{LogLevel: "info", ProfilePath: t.TempDir()}).validate())
}

func TestShellAppliesProfile(t *testing.T) {
	profile := &appconfig.Profile{
		Window:        appconfig.WindowProfile{Width: 1000, Height: 800, Scale: 2},
		ContentBounds: &types.ContentBounds{Left: 200, Top: 40, Width: 800, Height: 760},
		Tabs:          []string{"https://one.example", "about:blank"},
	}
	sh := setupShell(t, profile)
	ctx := context.Background()

	require.NoError(t, sh.applyProfile(ctx, profile))

	tabs, err := sh.manager.List(ctx)
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	assert.Equal(t, "https://one.example", tabs[0].URL)

	active, ok, err := sh.manager.Active(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tabs[1].ID, active)

	rect, ok := sh.manager.Placement(active)
	require.True(t, ok)
	assert.Equal(t, types.Rect{X: 400, Y: 80, Width: 1600, Height: 1520}, rect)

	placed, ok := sh.manager.Placement(tabs[0].ID)
	require.True(t, ok)
	assert.True(t, placed.IsOffscreen())
}

func TestShellRouterHasAllCommands(t *testing.T) {
	sh := setupShell(t, nil)

	assert.Len(t, sh.router.Commands(), 13)

	raw, err := sh.router.InvokeJSON(context.Background(), ipc.CmdListTabs, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestShellRejectsBadProfileTab(t *testing.T) {
	profile := &appconfig.Profile{Tabs: []string{"not a url"}}
	sh := setupShell(t, profile)
	assert.ErrorIs(t, sh.applyProfile(context.Background(), profile), types.ErrInvalidURL)
}

func TestStreamEvents(t *testing.T) {
	sh := setupShell(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- sh.streamEvents(ctx, &buf) }()

	_, err := sh.router.Invoke(context.Background(), ipc.CmdStartSidecar, nil)
	require.NoError(t, err)

	// once the status event is off the channel the writer has it
	require.Eventually(t, func() bool { return len(sh.events.Events()) == 0 }, time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	line := strings.TrimSpace(buf.String())
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, string(types.EventTypeSidecarStatus), decoded["type"])
	assert.Equal(t, map[string]interface{}{"status": "ready"}, decoded["payload"])
}
