package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/entrhq/clawbrowser/pkg/ipc"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// Console commands handled without the runner.
const (
	consoleHelp  = "help"
	consoleClear = "clear"
	consoleCopy  = "copy"
	consoleQuit  = "quit"
	consoleExit  = "exit"
)

var errEmptyCommand = errors.New("empty command")

// commandResultMsg carries the outcome of a dispatched command.
type commandResultMsg struct {
	name   string
	result json.RawMessage
	err    error
}

// tabsMsg carries a refreshed tab list.
type tabsMsg struct {
	tabs   []types.TabInfo
	active string
	err    error
}

// shellEventMsg wraps an event forwarded from the shell.
type shellEventMsg struct {
	event *types.ShellEvent
}

// parseCommandLine splits "name args" into the command name and its JSON
// arguments. Args are either a JSON object or space-separated key=value
// pairs; keys may be sjson paths.
func parseCommandLine(input string) (string, json.RawMessage, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil, errEmptyCommand
	}

	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return name, nil, nil
	}

	if strings.HasPrefix(rest, "{") {
		if !gjson.Valid(rest) {
			return "", nil, fmt.Errorf("%w: %s", types.ErrInvalidJSON, rest)
		}
		return name, json.RawMessage(rest), nil
	}

	args := "{}"
	for _, pair := range strings.Fields(rest) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return "", nil, fmt.Errorf("%w: expected key=value, got %q", ipc.ErrBadArgument, pair)
		}
		var err error
		args, err = sjson.Set(args, key, scalar(value))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %v", ipc.ErrBadArgument, key, err)
		}
	}
	return name, json.RawMessage(args), nil
}

// scalar types a key=value value: numbers and booleans stay typed,
// everything else is a string.
func scalar(value string) interface{} {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// invoke dispatches a command off the UI goroutine.
func (m *model) invoke(name string, args json.RawMessage) tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		result, err := runner.InvokeJSON(ctx, name, args)
		return commandResultMsg{name: name, result: result, err: err}
	}
}

// refreshTabs reloads the tab list and the active tab.
func (m *model) refreshTabs() tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		raw, err := runner.InvokeJSON(ctx, ipc.CmdListTabs, nil)
		if err != nil {
			return tabsMsg{err: err}
		}
		var tabs []types.TabInfo
		if err := json.Unmarshal(raw, &tabs); err != nil {
			return tabsMsg{err: fmt.Errorf("failed to decode tab list: %w", err)}
		}

		raw, err = runner.InvokeJSON(ctx, ipc.CmdGetActiveTab, nil)
		if err != nil {
			return tabsMsg{err: err}
		}
		var active *string
		if err := json.Unmarshal(raw, &active); err != nil {
			return tabsMsg{err: fmt.Errorf("failed to decode active tab: %w", err)}
		}

		msg := tabsMsg{tabs: tabs}
		if active != nil {
			msg.active = *active
		}
		return msg
	}
}

// runConsoleCommand handles the console's own commands. It reports false
// when name is not one of them.
func (m *model) runConsoleCommand(name string) (tea.Cmd, bool) {
	switch name {
	case consoleHelp:
		m.appendLine(tipsStyle.Render("commands: " + strings.Join(m.commands, ", ")))
		m.appendLine(tipsStyle.Render("console: help, clear, copy, quit"))
		return nil, true
	case consoleClear:
		m.content.Reset()
		if m.ready {
			m.viewport.SetContent("")
		}
		return nil, true
	case consoleCopy:
		m.copyActiveURL()
		return nil, true
	case consoleQuit, consoleExit:
		m.shouldQuit = true
		return tea.Quit, true
	}
	return nil, false
}

func (m *model) copyActiveURL() {
	url, ok := m.activeURL()
	if !ok {
		m.setStatus("no active tab", true)
		return
	}
	if err := m.copyText(url); err != nil {
		m.logger.Warnf("clipboard copy failed: %v", err)
		m.setStatus("copy failed: "+err.Error(), true)
		return
	}
	m.setStatus("copied "+url, false)
}
