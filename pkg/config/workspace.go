package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// appDirName is the per-user directory under the home directory.
	appDirName = ".clawbrowser"

	// workspaceFileName is the user config document written by the chrome UI.
	workspaceFileName = "config.json"
)

// HomeDir returns ~/.clawbrowser.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, appDirName), nil
}

// WorkspaceConfigPath returns ~/.clawbrowser/config.json.
func WorkspaceConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, workspaceFileName), nil
}

// DefaultWorkspacePath is used when the user config names no workspace.
func DefaultWorkspacePath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspace"), nil
}

// ReadWorkspacePath returns the non-empty "workspacePath" string from the
// JSON document at path. A missing file, malformed JSON or an absent or empty
// field yields ok == false.
func ReadWorkspacePath(path string) (workspace string, ok bool) {
	raw, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(raw) {
		return "", false
	}

	value := gjson.GetBytes(raw, "workspacePath")
	if value.Type != gjson.String {
		return "", false
	}
	workspace = strings.TrimSpace(value.String())
	return workspace, workspace != ""
}

// ResolveWorkspacePath returns the configured workspace or the default one.
func ResolveWorkspacePath() (string, error) {
	if path, err := WorkspaceConfigPath(); err == nil {
		if workspace, ok := ReadWorkspacePath(path); ok {
			return workspace, nil
		}
	}
	return DefaultWorkspacePath()
}
