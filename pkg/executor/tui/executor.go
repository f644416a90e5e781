// Package tui provides the interactive shell console. It plays the part of
// the chrome UI: commands are typed as "name {json}" or "name key=value" and
// dispatched by name, shell events are logged as they arrive, and the tab
// list is kept in a side panel.
//
// The code is split into multiple files:
// - executor.go: program lifecycle and event forwarding
// - model.go: model state
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - commands.go: command line parsing and console commands
// - events.go: shell event formatting
// - styles.go: colors and styles
package tui

import (
	"context"
	"encoding/json"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// Runner dispatches shell commands by name.
type Runner interface {
	Commands() []string
	InvokeJSON(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
}

// Executor runs the console until the user exits or ctx is canceled.
type Executor struct {
	runner  Runner
	events  <-chan *types.ShellEvent
	header  string
	logger  *logging.Logger
	program *tea.Program
}

// NewExecutor creates a console over runner. Events received on events are
// shown in the log; an empty header uses the default banner.
func NewExecutor(runner Runner, events <-chan *types.ShellEvent, header string, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Executor{
		runner: runner,
		events: events,
		header: header,
		logger: logger,
	}
}

// Run starts the console and blocks until it exits.
func (e *Executor) Run(ctx context.Context) error {
	m := newModel(ctx, e.runner, e.header, e.logger)

	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	go e.forwardEvents(ctx)

	e.logger.Infof("console started with %d commands", len(m.commands))
	_, err := e.program.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func (e *Executor) forwardEvents(ctx context.Context) {
	if e.events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-e.events:
			if !ok {
				return
			}
			e.program.Send(shellEventMsg{event: event})
		}
	}
}
