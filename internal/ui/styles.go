package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor    = lipgloss.Color("#7C3AED")
	mutedColor      = lipgloss.Color("#6B7280")
	foregroundColor = lipgloss.Color("#F9FAFB")
)

var (
	BaseStyle = lipgloss.NewStyle().
			Foreground(foregroundColor)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(primaryColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)
)
