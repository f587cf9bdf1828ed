package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
	"github.com/johanforsgren/glprofiles/internal/settings"
	"github.com/johanforsgren/glprofiles/internal/ui/components"
	"github.com/johanforsgren/glprofiles/internal/ui/views"
)

var log = logger.ForComponent("ui")

type Focus int

const (
	FocusForm Focus = iota
	FocusProfiles
)

// Model is the settings page: an editable form over the session draft, the
// stored server list, and the log view.
type Model struct {
	width     int
	height    int
	focus     Focus
	topBar    *components.TopBarModel
	statusBar *components.StatusBarModel
	form      *views.SettingsViewModel
	profiles  *views.ProfilesViewModel
	logsView  *views.LogsViewModel
	help      help.Model
	keys      keyMap

	session          *settings.Session
	ctx              context.Context
	cancelValidation context.CancelFunc
}

func NewModel(ctx context.Context, session *settings.Session, provider domain.ProviderType) Model {
	m := Model{
		focus:     FocusForm,
		topBar:    components.NewTopBar(string(provider)),
		statusBar: components.NewStatusBar(),
		form:      views.NewSettingsView(),
		profiles:  views.NewProfilesView(),
		logsView:  views.NewLogsView(),
		help:      help.New(),
		keys:      defaultKeyMap(),
		session:   session,
		ctx:       ctx,
	}
	m.form.SetValues(session.Tracker().Draft())
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	// A blank draft with stored servers is reported as skipped right away.
	return m.validate()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.form.SetWidth(msg.Width - 4)
		m.profiles.SetSize(msg.Width-4, m.listHeight())
		m.logsView.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ValidatedMsg:
		if msg.Result.Stale {
			return m, nil
		}
		m.showResult(msg.Result)
		m.refresh()
		return m, nil

	case ErrorMsg:
		m.statusBar.SetMessage(msg.err.Error(), components.StatusError)
		return m, nil

	case SuccessMsg:
		m.statusBar.SetMessage(msg.message, components.StatusSuccess)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.stopValidation()
		return m, tea.Quit
	}

	if m.logsView.IsActive() {
		switch msg.String() {
		case "esc", "q", "ctrl+l":
			m.logsView.Deactivate()
			return m, nil
		default:
			return m, m.logsView.Update(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Logs):
		m.logsView.Activate()
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		return m.apply()
	case key.Matches(msg, m.keys.Add):
		return m.addProfile()
	case key.Matches(msg, m.keys.Reset):
		return m.reset()
	}

	if m.focus == FocusProfiles {
		return m.handleProfilesKey(msg)
	}

	if key.Matches(msg, m.keys.Profiles) {
		m.focus = FocusProfiles
		m.form.Blur()
		return m, nil
	}

	cmd, changed := m.form.Update(msg)
	if !changed {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.edited())
}

func (m Model) handleProfilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopValidation()
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Form):
		m.focus = FocusForm
		m.form.Focus()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		return m.editSelected()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()
	}

	return m, m.profiles.Update(msg)
}

// edited pushes the form values into the tracker and starts a fresh
// validation. Editing back to the committed values needs no validation.
func (m *Model) edited() tea.Cmd {
	tracker := m.session.Tracker()
	values := m.form.Values()
	current := tracker.Draft()

	if values.Host != current.Host {
		tracker.SetHost(values.Host)
	}
	if values.Token != current.Token {
		tracker.SetToken(values.Token)
	}
	if values.DefaultRemoveBranch != current.DefaultRemoveBranch {
		tracker.SetDefaultRemoveBranch(values.DefaultRemoveBranch)
	}

	if !tracker.IsModified() {
		tracker.Reset()
		m.statusBar.ClearMessage()
	}

	m.refresh()
	return m.validate()
}

// validate cancels the in-flight check, if any, and runs a new one off the
// update loop.
func (m *Model) validate() tea.Cmd {
	m.stopValidation()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelValidation = cancel

	session := m.session
	if session.Tracker().State() == settings.StateDirty {
		m.statusBar.SetMessage("Checking settings...", components.StatusPending)
	}
	return func() tea.Msg {
		defer cancel()
		return ValidatedMsg{Result: session.Validate(ctx)}
	}
}

func (m *Model) stopValidation() {
	if m.cancelValidation != nil {
		m.cancelValidation()
		m.cancelValidation = nil
	}
}

func (m *Model) showResult(res settings.Result) {
	switch {
	case res.Verdict == domain.VerdictNone:
		if res.State == settings.StateDirty {
			m.statusBar.SetMessage("Enter both server URL and token to validate", components.StatusInfo)
		} else {
			m.statusBar.ClearMessage()
		}
	case res.Verdict.IsError():
		m.statusBar.SetMessage(res.Verdict.Message(), components.StatusError)
	default:
		m.statusBar.SetMessage(res.Verdict.Message(), components.StatusSuccess)
	}
}

func (m Model) apply() (tea.Model, tea.Cmd) {
	committed, err := m.session.Apply()
	if err != nil {
		log.LogError("APPLY", m.session.Tracker().Draft().Host, err)
		return m, errorCmd(err)
	}

	m.stopValidation()
	m.refresh()
	return m, func() tea.Msg {
		return SuccessMsg{message: fmt.Sprintf("Settings applied for %s", committed.Host)}
	}
}

func (m Model) addProfile() (tea.Model, tea.Cmd) {
	profile, err := m.session.AddProfile()
	if err != nil {
		if errors.Is(err, settings.ErrIncompleteProfile) {
			return m, errorCmd(errors.New("server URL and token are required"))
		}
		return m, errorCmd(err)
	}

	m.stopValidation()
	m.form.SetValues(m.session.Tracker().Draft())
	m.refresh()
	return m, func() tea.Msg {
		return SuccessMsg{message: fmt.Sprintf("Saved profile for %s", profile.Host)}
	}
}

func (m Model) reset() (tea.Model, tea.Cmd) {
	m.stopValidation()
	m.session.Tracker().Reset()
	m.form.SetValues(m.session.Tracker().Draft())
	m.statusBar.ClearMessage()
	m.refresh()
	return m, m.validate()
}

func (m Model) editSelected() (tea.Model, tea.Cmd) {
	profile, ok := m.session.EditSelected(m.profiles.SelectedIndex())
	if !ok {
		return m, nil
	}

	m.form.SetValues(m.session.Tracker().Draft())
	m.focus = FocusForm
	m.form.Focus()
	log.Log("Editing stored profile %s", profile.Host)
	return m, m.edited()
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	profile, ok, err := m.session.DeleteSelected(m.profiles.SelectedIndex())
	if err != nil {
		return m, errorCmd(err)
	}
	if !ok {
		return m, nil
	}

	m.form.SetValues(m.session.Tracker().Draft())
	m.refresh()
	return m, func() tea.Msg {
		return SuccessMsg{message: fmt.Sprintf("Deleted profile for %s", profile.Host)}
	}
}

// refresh syncs the bars, the list and the help tip with the session.
func (m *Model) refresh() {
	tracker := m.session.Tracker()
	committed := tracker.Committed()
	profiles := m.session.Profiles()

	m.topBar.SetActiveHost(committed.Host)
	m.topBar.SetModified(tracker.IsModified())
	m.topBar.SetProfileCount(len(profiles))
	m.profiles.SetProfiles(profiles, committed)
	m.form.SetHelp(tracker.HelpURL(), tracker.Draft().Host != "" && tracker.AllowsAdd())
	m.form.SetStatus(fmt.Sprintf("State: %s", tracker.State()))
	m.logsView.Refresh()
}

func (m Model) listHeight() int {
	h := m.height - 16
	if h < 4 {
		return 4
	}
	return h
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	if m.logsView.IsActive() {
		content = m.logsView.View()
	} else {
		formStyle, listStyle := FocusedPanelStyle, PanelStyle
		var keys help.KeyMap = formKeys{m.keys}
		if m.focus == FocusProfiles {
			formStyle, listStyle = PanelStyle, FocusedPanelStyle
			keys = listKeys{m.keys}
		}

		content = lipgloss.JoinVertical(lipgloss.Left,
			formStyle.Width(m.width-2).Render(m.form.View()),
			listStyle.Width(m.width-2).Render(m.profiles.View()),
			HelpStyle.Render(m.help.View(keys)),
		)
	}

	return m.topBar.View() + "\n" + content + "\n" + m.statusBar.View()
}

// Focused reports which panel receives key input.
func (m Model) Focused() Focus {
	return m.focus
}

type ValidatedMsg struct {
	Result settings.Result
}

type ErrorMsg struct {
	err error
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{err: err}
	}
}

type SuccessMsg struct {
	message string
}
