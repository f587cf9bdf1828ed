package storage

import "github.com/johanforsgren/glprofiles/internal/domain"

const currentVersion = 1

type stateFile struct {
	Version  int              `json:"version"`
	Settings domain.Settings  `json:"settings"`
	Servers  []domain.Profile `json:"servers"`
}

func defaultState() domain.State {
	return domain.State{
		Settings: domain.DefaultSettings(),
		Servers:  []domain.Profile{},
	}
}
