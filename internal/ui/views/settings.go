package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/glprofiles/internal/domain"
)

type SettingsField int

const (
	FieldHost SettingsField = iota
	FieldToken
	FieldRemoveBranch
	fieldCount
)

// SettingsViewModel is the editable connection form: host, token and the
// default remove-source-branch toggle.
type SettingsViewModel struct {
	hostInput    textinput.Model
	tokenInput   textinput.Model
	removeBranch bool
	focus        SettingsField
	focused      bool
	width        int

	status   string
	helpURL  string
	showHelp bool
}

func NewSettingsView() *SettingsViewModel {
	hostInput := textinput.New()
	hostInput.Placeholder = "https://gitlab.example.com"
	hostInput.CharLimit = 512
	hostInput.Prompt = ""
	hostInput.Cursor.SetMode(cursor.CursorStatic)

	tokenInput := textinput.New()
	tokenInput.Placeholder = "Personal access token"
	tokenInput.CharLimit = 256
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.EchoCharacter = '•'
	tokenInput.Prompt = ""
	tokenInput.Cursor.SetMode(cursor.CursorStatic)

	m := &SettingsViewModel{
		hostInput:  hostInput,
		tokenInput: tokenInput,
	}
	m.Focus()
	return m
}

func (m *SettingsViewModel) SetWidth(width int) {
	m.width = width
	inputWidth := width - 24
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.hostInput.Width = inputWidth
	m.tokenInput.Width = inputWidth
}

// SetValues loads s into the form without reporting an edit.
func (m *SettingsViewModel) SetValues(s domain.Settings) {
	m.hostInput.SetValue(s.Host)
	m.tokenInput.SetValue(s.Token)
	m.removeBranch = s.DefaultRemoveBranch
}

func (m *SettingsViewModel) Values() domain.Settings {
	return domain.Settings{
		Host:                m.hostInput.Value(),
		Token:               m.tokenInput.Value(),
		DefaultRemoveBranch: m.removeBranch,
	}
}

func (m *SettingsViewModel) SetStatus(status string) {
	m.status = status
}

func (m *SettingsViewModel) SetHelp(url string, visible bool) {
	m.helpURL = url
	m.showHelp = visible
}

func (m *SettingsViewModel) HelpVisible() bool {
	return m.showHelp
}

func (m *SettingsViewModel) FocusedField() SettingsField {
	return m.focus
}

func (m *SettingsViewModel) IsFocused() bool {
	return m.focused
}

func (m *SettingsViewModel) Focus() {
	m.focused = true
	m.applyFocus()
}

func (m *SettingsViewModel) Blur() {
	m.focused = false
	m.hostInput.Blur()
	m.tokenInput.Blur()
}

func (m *SettingsViewModel) applyFocus() {
	m.hostInput.Blur()
	m.tokenInput.Blur()
	if !m.focused {
		return
	}
	switch m.focus {
	case FieldHost:
		m.hostInput.Focus()
	case FieldToken:
		m.tokenInput.Focus()
	}
}

func (m *SettingsViewModel) nextField() {
	m.focus = (m.focus + 1) % fieldCount
	m.applyFocus()
}

func (m *SettingsViewModel) prevField() {
	m.focus = (m.focus + fieldCount - 1) % fieldCount
	m.applyFocus()
}

// Update feeds msg to the focused field. The bool reports whether any
// field value changed.
func (m *SettingsViewModel) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !m.focused {
		return nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			m.nextField()
			return nil, false
		case "shift+tab", "up":
			m.prevField()
			return nil, false
		}

		if m.focus == FieldRemoveBranch {
			switch keyMsg.String() {
			case " ", "enter", "x":
				m.removeBranch = !m.removeBranch
				return nil, true
			}
			return nil, false
		}
	}

	before := m.Values()
	var cmd tea.Cmd
	switch m.focus {
	case FieldHost:
		m.hostInput, cmd = m.hostInput.Update(msg)
	case FieldToken:
		m.tokenInput, cmd = m.tokenInput.Update(msg)
	}
	return cmd, m.Values() != before
}

func (m *SettingsViewModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)
	labelStyle := lipgloss.NewStyle().Width(22)
	activeLabel := labelStyle.Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	label := func(field SettingsField, text string) string {
		if m.focused && m.focus == field {
			return activeLabel.Render("> " + text)
		}
		return labelStyle.Render("  " + text)
	}

	b.WriteString(titleStyle.Render("GitLab Settings"))
	b.WriteString("\n\n")

	b.WriteString(label(FieldHost, "Server URL"))
	b.WriteString(m.hostInput.View())
	b.WriteString("\n")

	b.WriteString(label(FieldToken, "Access token"))
	b.WriteString(m.tokenInput.View())
	b.WriteString("\n")

	check := "[ ]"
	if m.removeBranch {
		check = "[x]"
	}
	b.WriteString(label(FieldRemoveBranch, "Remove source branch"))
	b.WriteString(fmt.Sprintf("%s by default", check))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	if m.showHelp && m.helpURL != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Create a token at " + m.helpURL))
		b.WriteString("\n")
	}

	return b.String()
}
