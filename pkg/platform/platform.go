// Package platform holds the per-OS behavior of the shell: the user agent
// presented by content surfaces and whether page instrumentation is active.
package platform

import (
	"os"
	"strings"
)

// Capabilities describes the running platform.
type Capabilities struct {
	// OS is the target operating system name.
	OS string

	// UserAgent overrides the surface's default user agent.
	UserAgent string
}

// Current returns the capabilities of the platform this binary targets.
func Current() Capabilities {
	return current
}

// DebugEnvVar opts a release build into page instrumentation.
const DebugEnvVar = "CLAW_DEBUG"

// DebugEnabled reports whether the debug channel is active. Development builds
// (built with -tags dev) always enable it.
func DebugEnabled() bool {
	if devBuild {
		return true
	}
	return envFlag(os.Getenv(DebugEnvVar))
}

func envFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
