package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
)

type ProfileItem struct {
	profile domain.Profile
	active  bool
}

func (i ProfileItem) FilterValue() string { return i.profile.Host }
func (i ProfileItem) Title() string {
	indicator := " "
	if i.active {
		indicator = "●"
	}
	return fmt.Sprintf("%s %s", indicator, i.profile.Host)
}
func (i ProfileItem) Description() string {
	merged := "no"
	if i.profile.DefaultRemoveBranch {
		merged = "yes"
	}
	return fmt.Sprintf("token %s  remove branch: %s", logger.MaskToken(i.profile.Token), merged)
}

// ProfilesViewModel lists stored profiles with masked tokens. A row is
// marked active when its host and token match the committed settings.
type ProfilesViewModel struct {
	list   list.Model
	width  int
	height int
}

func NewProfilesView() *ProfilesViewModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Stored Servers"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &ProfilesViewModel{list: l}
}

func (m *ProfilesViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}

func (m *ProfilesViewModel) SetProfiles(profiles []domain.Profile, active domain.Settings) {
	items := make([]list.Item, len(profiles))
	for i, p := range profiles {
		items[i] = ProfileItem{profile: p, active: p.SameIdentity(active.ToProfile())}
	}
	m.list.SetItems(items)
}

// SelectedIndex returns the highlighted row, or -1 when the list is empty.
func (m *ProfilesViewModel) SelectedIndex() int {
	if len(m.list.Items()) == 0 {
		return -1
	}
	return m.list.Index()
}

func (m *ProfilesViewModel) Len() int {
	return len(m.list.Items())
}

func (m *ProfilesViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *ProfilesViewModel) View() string {
	if len(m.list.Items()) == 0 {
		return "Stored Servers\n\n  No stored servers. Fill in the form and press ctrl+a."
	}
	return m.list.View()
}
