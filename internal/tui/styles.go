package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Color palette shared across the dashboard.
var (
	colorPrimary   = lipgloss.Color("39")  // blue
	colorHighlight = lipgloss.Color("212") // pink
	colorSurface   = lipgloss.Color("236") // dark gray
	colorBorder    = lipgloss.Color("240")
	colorMuted     = lipgloss.Color("245")
	colorSuccess   = lipgloss.Color("42")
	colorError     = lipgloss.Color("196")
	colorWarning   = lipgloss.Color("214")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted)

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(colorHighlight).
			Underline(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	paginationStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successToastStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	errorToastStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(colorPrimary)
	s.Selected = s.Selected.
		Foreground(colorHighlight).
		Background(colorSurface).
		Bold(true)
	return s
}
