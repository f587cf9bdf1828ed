package domain

type ProviderType string

const (
	ProviderGitLab ProviderType = "gitlab"
	ProviderGitHub ProviderType = "github"
)

type User struct {
	ID       string
	Username string
	Name     string
	Email    string
}

// Profile is one stored server identity. Profiles are values: an edit is
// a delete followed by an add.
type Profile struct {
	Host                string `json:"host"`
	Token               string `json:"token"`
	DefaultRemoveBranch bool   `json:"default_remove_branch"`
}

// SameIdentity reports whether both profiles point at the same host with
// the same token, ignoring the default flag.
func (p Profile) SameIdentity(other Profile) bool {
	return p.Host == other.Host && p.Token == other.Token
}

// Settings is the single active host/token pair, used both for the
// editable draft and for the last committed values.
type Settings struct {
	Host                string `json:"host"`
	Token               string `json:"token"`
	DefaultRemoveBranch bool   `json:"default_remove_branch"`
}

func DefaultSettings() Settings {
	return Settings{DefaultRemoveBranch: true}
}

func (s Settings) ToProfile() Profile {
	return Profile{
		Host:                s.Host,
		Token:               s.Token,
		DefaultRemoveBranch: s.DefaultRemoveBranch,
	}
}

func (p Profile) ToSettings() Settings {
	return Settings{
		Host:                p.Host,
		Token:               p.Token,
		DefaultRemoveBranch: p.DefaultRemoveBranch,
	}
}

// State is everything the persistence layer stores.
type State struct {
	Settings Settings  `json:"settings"`
	Servers  []Profile `json:"servers"`
}
