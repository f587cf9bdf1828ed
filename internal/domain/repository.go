package domain

// Repository durably stores the active settings and the profile list.
type Repository interface {
	Load() (State, error)

	Save(state State) error
}
