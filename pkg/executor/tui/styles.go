package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all console colors.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // secondary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // success states
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

var (
	// Text Styles
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	commandStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	eventStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	debugStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(mutedGray)

	// Container Styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	tabPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
