package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/clawbrowser/pkg/ipc"
	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/sidecar"
	"github.com/entrhq/clawbrowser/pkg/surface/memory"
	"github.com/entrhq/clawbrowser/pkg/tabs"
	"github.com/entrhq/clawbrowser/pkg/types"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	events := types.NewChannelEmitter(32)
	manager, err := tabs.NewManager(tabs.Options{
		Backend:     memory.NewBackend(),
		Window:      memory.NewWindow(1000, 800, 1),
		Emitter:     events,
		LockTimeout: time.Second,
		Logger:      logging.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Shutdown(context.Background()) })

	router := ipc.NewRouter(manager, sidecar.NewRelay(events, logging.Nop()), logging.Nop())
	m := newModel(context.Background(), router, "", logging.Nop())
	m.copyText = func(string) error { return nil }
	return m
}

// drain runs cmd and feeds every resulting message back into the model
// until no command is left.
func drain(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func submit(t *testing.T, m *model, line string) {
	t.Helper()
	m.input.SetValue(line)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs string
		wantErr  error
	}{
		{name: "bare command", input: "list_tabs", wantName: "list_tabs"},
		{name: "json args", input: `switch_tab {"tabId":"a"}`, wantName: "switch_tab", wantArgs: `{"tabId":"a"}`},
		{name: "key value args", input: "navigate_tab tabId=a url=https://example.com/?q=1", wantName: "navigate_tab", wantArgs: `{"tabId":"a","url":"https://example.com/?q=1"}`},
		{name: "numbers stay numbers", input: "set_content_bounds left=10 top=20.5 width=300 height=400", wantName: "set_content_bounds", wantArgs: `{"left":10,"top":20.5,"width":300,"height":400}`},
		{name: "nested path", input: "sidecar_send method=ping params.verbose=true", wantName: "sidecar_send", wantArgs: `{"method":"ping","params":{"verbose":true}}`},
		{name: "empty", input: "   ", wantErr: errEmptyCommand},
		{name: "broken json", input: `switch_tab {"tabId":`, wantErr: types.ErrInvalidJSON},
		{name: "missing equals", input: "switch_tab abc", wantErr: ipc.ErrBadArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, err := parseCommandLine(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			if tt.wantArgs == "" {
				assert.Nil(t, args)
				return
			}
			assert.JSONEq(t, tt.wantArgs, string(args))
		})
	}
}

func TestConsoleCreateAndSwitch(t *testing.T) {
	m := newTestModel(t)

	submit(t, m, "create_tab url=https://one.example")
	submit(t, m, "create_tab url=https://two.example")

	require.Len(t, m.tabs, 2)
	assert.Equal(t, m.tabs[1].ID, m.active)
	assert.Equal(t, "https://two.example", m.tabs[1].URL)

	first := m.tabs[0].ID
	submit(t, m, `switch_tab {"tabId":"`+first+`"}`)
	assert.Equal(t, first, m.active)
	assert.Equal(t, "switch_tab ok", m.status)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.content.String(), "› create_tab url=https://one.example")
}

func TestConsoleShowsCommandErrors(t *testing.T) {
	m := newTestModel(t)

	submit(t, m, "switch_tab tabId=missing")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.content.String(), "not found")

	submit(t, m, "no_such_command")
	assert.Contains(t, m.content.String(), ipc.ErrUnknownCommand.Error())

	submit(t, m, "switch_tab nope")
	assert.Contains(t, m.content.String(), "expected key=value")
}

func TestConsoleCopyActiveURL(t *testing.T) {
	m := newTestModel(t)
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "no active tab", m.status)
	assert.True(t, m.statusErr)

	submit(t, m, "create_tab url=https://copy.example")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "https://copy.example", copied)
	assert.False(t, m.statusErr)

	m.copyText = func(string) error { return errors.New("no clipboard") }
	submit(t, m, "copy")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "no clipboard")
}

func TestConsoleOpenRequestCreatesTab(t *testing.T) {
	m := newTestModel(t)

	event := types.NewTabOpenRequestEvent("tab-x", "https://opened.example", types.OpenReasonShiftClick)
	_, cmd := m.Update(shellEventMsg{event: event})
	drain(t, m, cmd)

	require.Len(t, m.tabs, 1)
	assert.Equal(t, "https://opened.example", m.tabs[0].URL)
	assert.Contains(t, m.content.String(), string(types.EventTypeTabOpenRequest))
}

func TestConsoleLogsEvents(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(shellEventMsg{event: types.NewSidecarStatusEvent(sidecar.StatusReady)})
	assert.Nil(t, cmd)
	assert.Contains(t, m.content.String(), "[sidecar-status]")
	assert.Contains(t, ansi.Strip(m.content.String()), `"status":"ready"`)

	_, cmd = m.Update(shellEventMsg{event: types.NewTabLoadedEvent("tab-1", "https://a.example")})
	assert.NotNil(t, cmd)
}

func TestConsoleHistoryAndClear(t *testing.T) {
	m := newTestModel(t)

	submit(t, m, "list_tabs")
	submit(t, m, "help")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "help", m.input.Value())
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "list_tabs", m.input.Value())
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "list_tabs", m.input.Value())
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", m.input.Value())

	assert.Contains(t, m.content.String(), ipc.CmdCreateTab)
	submit(t, m, "clear")
	assert.Empty(t, m.content.String())
}

func TestConsoleQuit(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("quit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.shouldQuit)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestConsoleView(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "Initializing...", m.View())

	_, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	submit(t, m, "create_tab url=https://view.example")

	view := m.View()
	assert.Contains(t, view, defaultHeader)
	assert.Contains(t, view, "Tabs (1)")
	assert.Contains(t, view, "create_tab ok")
}

func TestFormatEventDebug(t *testing.T) {
	line := formatEvent(types.NewDebugEvent(types.DebugRecord{TabID: "t", Kind: "console"}))
	assert.Contains(t, line, "[claw-debug]")
	assert.Contains(t, line, `"kind":"console"`)
	assert.Empty(t, formatEvent(nil))
}

func TestHighlightJSONStaysOnOneLine(t *testing.T) {
	doc := `{"tabId":"tab-1","url":"https://a.example","n":9007199254740993}`
	line := highlightJSON(doc)

	assert.NotContains(t, line, "\n")
	assert.Equal(t, doc, ansi.Strip(line))
	assert.Equal(t, "", ansi.Strip(highlightJSON("")))
}

func TestFormatEventHighlightsPayload(t *testing.T) {
	line := formatEvent(types.NewTabLoadedEvent("tab-1", "https://a.example"))

	plain := ansi.Strip(line)
	assert.True(t, strings.HasPrefix(plain, "[tab-loaded] "), plain)
	assert.Contains(t, plain, `"url":"https://a.example"`)
	assert.NotContains(t, line, "\n")
}

func TestCommandResultIsHighlighted(t *testing.T) {
	m := newTestModel(t)
	submit(t, m, "create_tab url=https://one.example")
	require.Len(t, m.tabs, 1)

	content := m.content.String()
	assert.Contains(t, ansi.Strip(content), `"`+m.tabs[0].ID+`"`)
	assert.Contains(t, content, "\x1b[", "chroma colors the result")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", shortID("3f2a9c1e-0000-4000-8000-000000000000"))
	assert.Equal(t, "tab-1", shortID("tab-1"))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
}
