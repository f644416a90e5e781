package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultHeader = "clawshell"

// View renders the console.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.viewport.View(),
		" ",
		m.buildTabPanel(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.buildHeader(),
		m.buildTips(),
		body,
		inputBoxStyle.Width(max(m.width-2, 10)).Render(m.input.View()),
		m.buildStatusBar(),
	)
}

func (m *model) buildHeader() string {
	header := m.header
	if header == "" {
		header = defaultHeader
	}
	return headerStyle.Render(header)
}

func (m *model) buildTips() string {
	return tipsStyle.Render("  Enter to run • help for commands • ↑/↓ history • Ctrl+Y copy URL • Ctrl+L clear • Ctrl+C exit")
}

// buildTabPanel lists tabs in creation order with the active one marked.
func (m *model) buildTabPanel() string {
	inner := tabPanelWidth - 4
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Tabs (%d)", len(m.tabs))))

	for _, tab := range m.tabs {
		b.WriteString("\n")
		line := truncate(fmt.Sprintf("%s %s", shortID(tab.ID), tab.URL), inner-2)
		if tab.ID == m.active {
			b.WriteString(activeTabStyle.Render("● " + line))
		} else {
			b.WriteString(inactiveTabStyle.Render("  " + line))
		}
	}

	return tabPanelStyle.
		Width(inner).
		Height(max(m.viewport.Height-2, 1)).
		Render(b.String())
}

func (m *model) buildStatusBar() string {
	status := m.status
	if status == "" {
		status = "ready"
	}
	if m.statusErr {
		return statusBarStyle.Render(errorStyle.Render(status))
	}
	return statusBarStyle.Render(status)
}

// shortID keeps the first segment of a UUID-style id.
func shortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok && len(head) >= 8 {
		return head
	}
	return id
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
