package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tidwall/sjson"

	"github.com/entrhq/clawbrowser/pkg/ipc"
)

// Update handles all incoming messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.shouldQuit {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case commandResultMsg:
		return m.handleCommandResult(msg)
	case tabsMsg:
		return m.handleTabs(msg)
	case shellEventMsg:
		return m.handleShellEvent(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if !m.ready {
		m.ready = true
	}
	m.recalculateLayout()
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
	return m, nil
}

// recalculateLayout sizes the log, tab panel and input from the window size.
func (m *model) recalculateLayout() {
	// header, tips, input box (3) and status bar
	chrome := 6
	height := m.height - chrome
	if height < 1 {
		height = 1
	}
	width := m.width - tabPanelWidth - 1
	if width < 20 {
		width = 20
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.input.Width = m.width - 8
}

func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.shouldQuit = true
		return m, tea.Quit
	case "ctrl+y":
		m.copyActiveURL()
		return m, nil
	case "ctrl+l":
		m.runConsoleCommand(consoleClear)
		return m, nil
	case "up":
		m.input.SetValue(m.recallHistory(-1))
		m.input.CursorEnd()
		return m, nil
	case "down":
		m.input.SetValue(m.recallHistory(1))
		m.input.CursorEnd()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		return m.handleEnter()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleEnter() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	m.pushHistory(line)
	m.appendLine(commandStyle.Render("› " + line))

	name, args, err := parseCommandLine(line)
	if err != nil {
		m.appendLine(errorStyle.Render("error: " + err.Error()))
		return m, nil
	}

	if cmd, ok := m.runConsoleCommand(name); ok {
		return m, cmd
	}

	m.setStatus("running "+name, false)
	return m, m.invoke(name, args)
}

func (m *model) handleCommandResult(msg commandResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.appendLine(errorStyle.Render("error: " + msg.err.Error()))
		m.setStatus(msg.name+" failed", true)
		return m, nil
	}

	if result := string(msg.result); result != "" && result != "null" {
		m.appendLine(highlightJSON(result))
	}
	m.setStatus(msg.name+" ok", false)
	return m, m.refreshTabs()
}

func (m *model) handleTabs(msg tabsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warnf("tab refresh failed: %v", msg.err)
		m.setStatus("tab refresh failed: "+msg.err.Error(), true)
		return m, nil
	}
	m.tabs = msg.tabs
	m.active = msg.active
	return m, nil
}

// handleShellEvent logs the event. Open requests are honored by creating a
// tab, as the chrome UI does.
func (m *model) handleShellEvent(msg shellEventMsg) (tea.Model, tea.Cmd) {
	if msg.event == nil {
		return m, nil
	}
	m.appendLine(formatEvent(msg.event))

	if url, ok := openRequestURL(msg.event); ok {
		args, err := sjson.Set("{}", "url", url)
		if err != nil {
			m.logger.Errorf("failed to encode open request for %s: %v", url, err)
			return m, nil
		}
		return m, m.invoke(ipc.CmdCreateTab, []byte(args))
	}

	if tabChanged(msg.event) {
		return m, m.refreshTabs()
	}
	return m, nil
}
