package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/glprofiles/internal/logger"
)

// LogsViewModel is a scrollable view over the in-memory log buffer.
type LogsViewModel struct {
	width  int
	height int
	offset int
	active bool
	logs   []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.logs = logger.GetLogs()
	m.offset = 0
	if len(m.logs) > m.getVisibleLines() {
		m.offset = len(m.logs) - m.getVisibleLines()
	}
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

func (m *LogsViewModel) getVisibleLines() int {
	if m.height < 10 {
		return 1
	}
	return m.height - 8
}

// Refresh re-reads the log buffer, staying pinned to the bottom when the
// view was already there.
func (m *LogsViewModel) Refresh() {
	if !m.active {
		return
	}
	atBottom := m.offset >= len(m.logs)-m.getVisibleLines()
	m.logs = logger.GetLogs()
	if atBottom && len(m.logs) > m.getVisibleLines() {
		m.offset = len(m.logs) - m.getVisibleLines()
	}
}

func levelColor(entry logger.LogEntry) lipgloss.Color {
	switch entry.Level {
	case logger.LevelError:
		return lipgloss.Color("#EF4444")
	case logger.LevelFile:
		if strings.Contains(entry.Message, "[FILE_WRITE]") {
			return lipgloss.Color("#F59E0B")
		}
		return lipgloss.Color("#10B981")
	}
	if entry.Component == "verifier" {
		return lipgloss.Color("#3B82F6")
	}
	return lipgloss.Color("#E5E7EB")
}

func truncateLine(line string, width int) string {
	if width <= 0 || lipgloss.Width(line) <= width {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			maxOffset := len(m.logs) - m.getVisibleLines()
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.offset < maxOffset {
				m.offset++
			}
		case "pgup":
			m.offset -= m.getVisibleLines()
			if m.offset < 0 {
				m.offset = 0
			}
		case "pgdown":
			m.offset += m.getVisibleLines()
			maxOffset := len(m.logs) - m.getVisibleLines()
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.offset > maxOffset {
				m.offset = maxOffset
			}
		case "g", "home":
			m.offset = 0
		case "G", "end":
			maxOffset := len(m.logs) - m.getVisibleLines()
			if maxOffset < 0 {
				maxOffset = 0
			}
			m.offset = maxOffset
		}
	}

	return nil
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)

	b.WriteString(titleStyle.Render(fmt.Sprintf("Validation & Storage Logs (%d entries)", len(m.logs))))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
		b.WriteString(emptyStyle.Render("No logs yet"))
	} else {
		visibleLines := m.getVisibleLines()
		start := m.offset
		end := start + visibleLines
		if end > len(m.logs) {
			end = len(m.logs)
		}

		for i := start; i < end; i++ {
			entry := m.logs[i]
			timestamp := entry.Timestamp.Format("15:04:05.000")

			line := fmt.Sprintf("[%s] %s", timestamp, entry.Message)
			if entry.Component != "" {
				line = fmt.Sprintf("[%s] %-9s %s", timestamp, entry.Component, entry.Message)
			}

			lineStyle := lipgloss.NewStyle().Foreground(levelColor(entry))
			b.WriteString(truncateLine(lineStyle.Render(line), m.width-8))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	scrollInfo := ""
	if len(m.logs) > m.getVisibleLines() {
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, m.offset+m.getVisibleLines(), len(m.logs))
	}

	help := fmt.Sprintf("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | Esc: Close%s", scrollInfo)
	b.WriteString(helpStyle.Render(help))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(m.width - 4)

	return boxStyle.Render(b.String())
}
