// Package main provides the clawbrowser shell: the tab engine, its surface
// backend and an interactive console standing in for the chrome UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/entrhq/clawbrowser/pkg/config"
	"github.com/entrhq/clawbrowser/pkg/executor/tui"
	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/platform"
)

const version = "0.1.0"

// Config holds the command line configuration
type Config struct {
	ConfigPath  string
	ProfilePath string
	Backend     string
	Headed      bool
	Debug       bool
	LogLevel    string
	NoTUI       bool
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("clawshell v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.ConfigPath, "config", "", "Path to the shell settings file (default: ~/.clawbrowser/shell.json)")
	flag.StringVar(&config.ProfilePath, "profile", "", "Path to a startup profile (YAML)")
	flag.StringVar(&config.Backend, "backend", "", "Surface backend: memory or playwright (overrides settings)")
	flag.BoolVar(&config.Headed, "headed", false, "Show the playwright browser window (overrides settings)")
	flag.BoolVar(&config.Debug, "debug", false, "Install page instrumentation and relay debug records")
	flag.StringVar(&config.LogLevel, "log-level", "error", "Log threshold: debug, info, warn, error or off")
	flag.BoolVar(&config.NoTUI, "no-tui", false, "Print shell events as JSON lines instead of starting the console")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "clawshell - tab and surface host for clawbrowser\n\n")
		fmt.Fprintf(os.Stderr, "Usage: clawshell [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %-14s Log directory (a \"system\" subdirectory is used)\n", logging.LogDirEnvVar)
		fmt.Fprintf(os.Stderr, "  %-14s Enable page instrumentation in release builds\n", platform.DebugEnvVar)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  clawshell                                   # Console over in-memory surfaces\n")
		fmt.Fprintf(os.Stderr, "  clawshell -backend playwright -profile dev.yaml\n")
		fmt.Fprintf(os.Stderr, "  clawshell -no-tui -profile dev.yaml | jq .\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	switch c.Backend {
	case "", appconfig.BackendMemory, appconfig.BackendPlaywright:
	default:
		return fmt.Errorf("invalid backend %q (must be %q or %q)", c.Backend, appconfig.BackendMemory, appconfig.BackendPlaywright)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.ProfilePath != "" {
		info, err := os.Stat(c.ProfilePath)
		if err != nil {
			return fmt.Errorf("profile error: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("profile path '%s' is a directory", c.ProfilePath)
		}
	}

	return nil
}

// run executes the main application logic
func run(ctx context.Context, config *Config) error {
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logging.Configure("", level)
	defer func() { _ = logging.Close() }()

	if err := appconfig.Initialize(config.ConfigPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	var profile *appconfig.Profile
	if config.ProfilePath != "" {
		profile, err = appconfig.LoadProfile(config.ProfilePath)
		if err != nil {
			return err
		}
	}

	sh, err := newShell(config, profile)
	if err != nil {
		return err
	}
	defer sh.close()

	if err := sh.applyProfile(ctx, profile); err != nil {
		return err
	}

	if config.NoTUI {
		return sh.streamEvents(ctx, os.Stdout)
	}

	executor := tui.NewExecutor(sh.router, sh.events.Events(), "", sh.logger)
	return executor.Run(ctx)
}
