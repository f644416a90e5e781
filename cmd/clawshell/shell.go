package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	appconfig "github.com/entrhq/clawbrowser/pkg/config"
	"github.com/entrhq/clawbrowser/pkg/ipc"
	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/navigation"
	"github.com/entrhq/clawbrowser/pkg/platform"
	"github.com/entrhq/clawbrowser/pkg/sidecar"
	"github.com/entrhq/clawbrowser/pkg/surface"
	"github.com/entrhq/clawbrowser/pkg/surface/browser"
	"github.com/entrhq/clawbrowser/pkg/surface/memory"
	"github.com/entrhq/clawbrowser/pkg/tabs"
	"github.com/entrhq/clawbrowser/pkg/types"
)

const (
	eventBuffer     = 256
	shutdownTimeout = 5 * time.Second
)

// shell is the wired process: backend, tab engine, relay and router.
type shell struct {
	events   *types.ChannelEmitter
	manager  *tabs.Manager
	relay    *sidecar.Relay
	router   *ipc.Router
	backend  surface.Backend
	shutdown func() error
	logger   *logging.Logger
}

// newShell builds the shell from the global settings, the profile and the
// command line, in increasing precedence.
func newShell(config *Config, profile *appconfig.Profile) (*shell, error) {
	logger, err := logging.NewLogger("shell")
	if err != nil {
		// fallback logger already writes to stderr
		logger.Warnf("file logging unavailable: %v", err)
	}

	browserSection := appconfig.GetBrowser()
	if profile != nil {
		profile.Apply(browserSection)
	}
	backendName := browserSection.GetBackend()
	if config.Backend != "" {
		backendName = config.Backend
	}
	headless := browserSection.IsHeadless() && !config.Headed
	debug := config.Debug || browserSection.IsDebug() || platform.DebugEnabled()

	width, height, scale := browserSection.WindowSize()
	window := memory.NewWindow(
		int(math.Round(float64(width)*scale)),
		int(math.Round(float64(height)*scale)),
		scale,
	)

	sh := &shell{
		events:   types.NewChannelEmitter(eventBuffer),
		shutdown: func() error { return nil },
		logger:   logger,
	}

	switch backendName {
	case appconfig.BackendPlaywright:
		b := browser.NewBackend(browser.Options{Headless: headless, Logger: logger})
		if err := b.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to start playwright: %w", err)
		}
		sh.backend = b
		sh.shutdown = b.Shutdown
	default:
		sh.backend = memory.NewBackend(memory.WithInspector())
	}

	navSection := appconfig.GetNavigation()
	policy, err := navigation.NewPolicy(navSection.BlockedURLs(), navSection.NewWindowInPlace())
	if err != nil {
		_ = sh.shutdown()
		return nil, fmt.Errorf("invalid navigation settings: %w", err)
	}

	layoutSection := appconfig.GetLayout()
	sh.manager, err = tabs.NewManager(tabs.Options{
		Backend:               sh.backend,
		Window:                window,
		Emitter:               sh.events,
		Chrome:                layoutSection.Chrome(),
		Policy:                policy,
		Platform:              platform.Current(),
		Debug:                 debug,
		InspectorPollInterval: layoutSection.GetInspectorPollInterval(),
		LockTimeout:           layoutSection.GetLockTimeout(),
		Logger:                logger,
	})
	if err != nil {
		_ = sh.shutdown()
		return nil, err
	}

	sh.relay = sidecar.NewRelay(sh.events, logger)
	sh.router = ipc.NewRouter(sh.manager, sh.relay, logger)

	logger.Infof("shell ready: backend=%s headless=%v debug=%v window=%dx%d@%v session=%s",
		backendName, headless, debug, width, height, scale, logging.GetSessionID())
	return sh, nil
}

// applyProfile opens the profile's tabs in order and reports its content
// bounds, as the chrome UI does on startup.
func (sh *shell) applyProfile(ctx context.Context, profile *appconfig.Profile) error {
	if profile == nil {
		return nil
	}

	if b := profile.ContentBounds; b != nil {
		if err := sh.manager.ReportBounds(ctx, *b); err != nil {
			return fmt.Errorf("failed to report profile content bounds: %w", err)
		}
	}

	for _, raw := range profile.Tabs {
		id, err := sh.manager.Create(ctx, raw)
		if err != nil {
			return fmt.Errorf("failed to open profile tab %q: %w", raw, err)
		}
		sh.logger.Debugf("profile tab %s opened at %s", id, raw)
	}
	return nil
}

// streamEvents writes every event as a JSON line until ctx is canceled.
func (sh *shell) streamEvents(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-sh.events.Events():
			line := struct {
				Type    types.ShellEventType `json:"type"`
				Payload interface{}          `json:"payload"`
			}{event.Type, event.Payload}
			if err := enc.Encode(line); err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
		}
	}
}

// close shuts the tab engine down and then the backend.
func (sh *shell) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sh.manager.Shutdown(ctx); err != nil {
		sh.logger.Errorf("tab shutdown failed: %v", err)
	}
	if err := sh.shutdown(); err != nil {
		sh.logger.Errorf("backend shutdown failed: %v", err)
	}
	if dropped := sh.events.Dropped(); dropped > 0 {
		sh.logger.Warnf("%d events dropped", dropped)
	}
}
