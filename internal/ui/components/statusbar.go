package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusPending
	StatusError
)

// StatusBarModel shows the latest verdict or action outcome on the
// bottom line.
type StatusBarModel struct {
	width   int
	message string
	level   StatusLevel
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, level StatusLevel) {
	m.message = message
	m.level = level
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.level = StatusInfo
}

func (m *StatusBarModel) Message() string {
	return m.message
}

func (m *StatusBarModel) Level() StatusLevel {
	return m.level
}

func (m *StatusBarModel) View() string {
	content := " " + m.message

	if m.width > 3 && lipgloss.Width(content) > m.width {
		runes := []rune(content)
		if len(runes) > m.width-3 {
			runes = runes[:m.width-3]
		}
		content = string(runes) + "..."
	} else if lipgloss.Width(content) < m.width {
		content += strings.Repeat(" ", m.width-lipgloss.Width(content))
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(statusColor(m.level))
	if m.width > 0 {
		style = style.Width(m.width)
	}

	return style.Render(content)
}

func statusColor(level StatusLevel) lipgloss.Color {
	switch level {
	case StatusSuccess:
		return lipgloss.Color("#065F46")
	case StatusPending:
		return lipgloss.Color("#92400E")
	case StatusError:
		return lipgloss.Color("#991B1B")
	default:
		return lipgloss.Color("#374151")
	}
}
