package registry

import (
	"sync"

	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
)

var log = logger.ForComponent("registry")

// Registry is an ordered, in-memory list of profiles. Duplicates are
// allowed; callers that need uniqueness check before Add. Persisting the
// list is the caller's job.
type Registry struct {
	mu       sync.RWMutex
	profiles []domain.Profile
}

func New(profiles []domain.Profile) *Registry {
	r := &Registry{}
	r.Replace(profiles)
	return r
}

// Replace swaps the whole list, typically with what storage loaded.
func (r *Registry) Replace(profiles []domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles = make([]domain.Profile, len(profiles))
	copy(r.profiles, profiles)
}

func (r *Registry) Add(profile domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles = append(r.profiles, profile)
	log.Log("Adding profile: %s (token %s)", profile.Host, logger.MaskToken(profile.Token))
}

// Delete removes the first profile equal to profile and reports whether
// one was found. A missing profile is not an error.
func (r *Registry) Delete(profile domain.Profile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.profiles {
		if p == profile {
			r.profiles = append(r.profiles[:i], r.profiles[i+1:]...)
			log.Log("Deleting profile: %s", profile.Host)
			return true
		}
	}
	return false
}

// List returns a snapshot copy in insertion order.
func (r *Registry) List() []domain.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]domain.Profile, len(r.profiles))
	copy(profiles, r.profiles)
	return profiles
}

// FindBySelection resolves a row index of a List snapshot.
func (r *Registry) FindBySelection(index int) (domain.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.profiles) {
		return domain.Profile{}, false
	}
	return r.profiles[index], true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.profiles)
}
