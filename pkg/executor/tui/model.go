package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/types"
)

const (
	tabPanelWidth = 36
	maxHistory    = 100
)

// model represents the state of the console.
type model struct {
	// Bubble Tea components
	viewport viewport.Model
	input    textinput.Model

	// Shell integration
	ctx      context.Context
	runner   Runner
	commands []string
	logger   *logging.Logger

	// Customization
	header string

	// Content buffer for the command and event log
	content *strings.Builder

	// Tab panel state
	tabs   []types.TabInfo
	active string

	// Command line history, oldest first
	history    []string
	historyPos int

	status     string
	statusErr  bool
	shouldQuit bool

	// Window dimensions
	width  int
	height int
	ready  bool

	// copyText writes to the system clipboard.
	copyText func(string) error
}

func newModel(ctx context.Context, runner Runner, header string, logger *logging.Logger) *model {
	if logger == nil {
		logger = logging.Nop()
	}

	ti := textinput.New()
	ti.Placeholder = `create_tab url=https://example.com  or  switch_tab {"tabId":"..."}`
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Focus()

	return &model{
		input:    ti,
		ctx:      ctx,
		runner:   runner,
		commands: runner.Commands(),
		logger:   logger,
		header:   header,
		content:  &strings.Builder{},
		copyText: clipboard.WriteAll,
	}
}

// Init loads the initial tab list.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshTabs())
}

// appendLine adds a rendered line to the log and scrolls to it.
func (m *model) appendLine(line string) {
	if m.content.Len() > 0 {
		m.content.WriteString("\n")
	}
	m.content.WriteString(line)
	if m.ready {
		m.viewport.SetContent(m.content.String())
		m.viewport.GotoBottom()
	}
}

func (m *model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// activeURL returns the URL of the active tab.
func (m *model) activeURL() (string, bool) {
	for _, tab := range m.tabs {
		if tab.ID == m.active {
			return tab.URL, true
		}
	}
	return "", false
}

func (m *model) pushHistory(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	}
	m.historyPos = len(m.history)
}

// recallHistory moves through history by delta and returns the entry, or ""
// past the newest entry.
func (m *model) recallHistory(delta int) string {
	if len(m.history) == 0 {
		return ""
	}
	m.historyPos += delta
	if m.historyPos < 0 {
		m.historyPos = 0
	}
	if m.historyPos >= len(m.history) {
		m.historyPos = len(m.history)
		return ""
	}
	return m.history[m.historyPos]
}
