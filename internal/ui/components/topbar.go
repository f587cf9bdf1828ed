package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TopBarModel shows the active server, the provider flavor and whether the
// draft has unapplied edits.
type TopBarModel struct {
	width        int
	provider     string
	activeHost   string
	modified     bool
	profileCount int
}

func NewTopBar(provider string) *TopBarModel {
	return &TopBarModel{provider: provider}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

func (m *TopBarModel) SetActiveHost(host string) {
	m.activeHost = host
}

func (m *TopBarModel) SetModified(modified bool) {
	m.modified = modified
}

func (m *TopBarModel) SetProfileCount(n int) {
	m.profileCount = n
}

func (m *TopBarModel) View() string {
	host := m.activeHost
	if host == "" {
		host = "no server configured"
	}

	left := fmt.Sprintf(" glprofiles [%s]  %s", m.provider, host)
	if m.modified {
		left += " *"
	}
	right := fmt.Sprintf("%d profile(s) ", m.profileCount)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	content := left + strings.Repeat(" ", gap) + right

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#7C3AED")).
		Bold(true)
	if m.width > 0 {
		style = style.Width(m.width)
	}

	return style.Render(content)
}
