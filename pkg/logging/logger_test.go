package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points the shared sink at a temp directory and pins the clock.
func setupTestDir(t *testing.T, level Level, at time.Time) string {
	t.Helper()

	dir := t.TempDir()
	origNow := now
	now = func() time.Time { return at }
	Configure(dir, level)

	t.Cleanup(func() {
		_ = Close()
		Configure("", LevelError)
		now = origNow
	})
	return dir
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"", LevelError, false},
		{"off", LevelOff, false},
		{"verbose", LevelError, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "OFF", LevelOff.String())
}

func TestNewLoggerWritesDailyFile(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	dir := setupTestDir(t, LevelInfo, at)

	logger, err := NewLogger("tabs")
	require.NoError(t, err)

	logger.Infof("Test message %d", 123)
	logger.Debugf("hidden")

	path := filepath.Join(dir, "2026-03-14.log")
	assert.Equal(t, path, logger.LogPath())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2026-03-14T09:26:53Z] [tabs] [INFO] Test message 123\n", string(content))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("test", &buf, LevelWarn)

	logger.Debugf("debug")
	logger.Infof("info")
	logger.Printf("printf")
	logger.Warnf("warn")
	logger.Errorf("error")

	out := buf.String()
	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[test] [WARN] warn")
	assert.Contains(t, out, "[test] [ERROR] error")
	assert.True(t, logger.Enabled(LevelError))
	assert.False(t, logger.Enabled(LevelInfo))
}

func TestDefaultLevelKeepsOnlyErrors(t *testing.T) {
	dir := setupTestDir(t, LevelError, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	logger, err := NewLogger("system")
	require.NoError(t, err)
	logger.Infof("not kept")
	logger.Errorf("kept")

	content, err := os.ReadFile(filepath.Join(dir, "2026-01-02.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "not kept")
	assert.Contains(t, string(content), "[system] [ERROR] kept")
}

func TestLoggersShareFile(t *testing.T) {
	dir := setupTestDir(t, LevelDebug, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	a, err := NewLogger("a")
	require.NoError(t, err)
	b, err := NewLogger("b")
	require.NoError(t, err)

	a.Infof("from a")
	b.Infof("from b")

	content, err := os.ReadFile(filepath.Join(dir, "2026-05-01.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[a] [INFO] from a")
	assert.Contains(t, lines[1], "[b] [INFO] from b")
}

func TestRotationOnDateChange(t *testing.T) {
	at := time.Date(2026, 6, 1, 23, 59, 0, 0, time.UTC)
	dir := setupTestDir(t, LevelInfo, at)

	logger, err := NewLogger("rot")
	require.NoError(t, err)
	logger.Infof("before midnight")

	now = func() time.Time { return at.Add(2 * time.Minute) }
	logger.Infof("after midnight")

	first, err := os.ReadFile(filepath.Join(dir, "2026-06-01.log"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "2026-06-02.log"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "before midnight")
	assert.Contains(t, string(second), "after midnight")
}

func TestPruneOldLogs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"2026-02-20.log", // expired
		"2026-02-23.log", // expired
		"2026-02-24.log", // oldest kept
		"2026-03-01.log",
		"notes.log",
		"2026-01-01.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}

	setupTestDir(t, LevelInfo, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	Configure(dir, LevelInfo)

	_, err := NewLogger("prune")
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "2026-02-20.log"))
	assert.NoFileExists(t, filepath.Join(dir, "2026-02-23.log"))
	assert.FileExists(t, filepath.Join(dir, "2026-02-24.log"))
	assert.FileExists(t, filepath.Join(dir, "2026-03-01.log"))
	assert.FileExists(t, filepath.Join(dir, "notes.log"))
	assert.FileExists(t, filepath.Join(dir, "2026-01-01.txt"))
}

func TestResolveDirFromEnv(t *testing.T) {
	base := t.TempDir()
	t.Setenv(LogDirEnvVar, base)

	dir, err := ResolveDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "system"), dir)
}

func TestResolveDirRelativeEnv(t *testing.T) {
	t.Setenv(LogDirEnvVar, "relative-logs")
	cwd, err := os.Getwd()
	require.NoError(t, err)

	dir, err := ResolveDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "relative-logs", "system"), dir)
}

func TestResolveDirFromWorkspace(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(LogDirEnvVar, "")

	workspace := filepath.Join(home, "ws")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".clawbrowser"), 0750))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".clawbrowser", "config.json"),
		[]byte(`{"workspacePath":"`+workspace+`"}`), 0600))

	dir, err := ResolveDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workspace, "logs", "system"), dir)
}

func TestResolveDirDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(LogDirEnvVar, "")

	dir, err := ResolveDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".clawbrowser", "workspace", "logs", "system"), dir)
}

func TestNopLogger(t *testing.T) {
	logger := Nop()
	logger.Errorf("discarded")
	assert.False(t, logger.Enabled(LevelError))
	assert.Equal(t, "", logger.LogPath())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() { logger.Errorf("nothing") })
}

func TestGetSessionID(t *testing.T) {
	id1 := GetSessionID()
	id2 := GetSessionID()
	assert.NotEmpty(t, id1)
	assert.Equal(t, id1, id2)
	assert.Equal(t, id1, Nop().SessionID())
}

func TestGetLogDirectory(t *testing.T) {
	dir := setupTestDir(t, LevelError, time.Now())

	got, err := GetLogDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}
