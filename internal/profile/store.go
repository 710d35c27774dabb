package profile

import (
	"sort"
	"sync"

	"github.com/ayusman/mudra/internal/action"
)

// Store holds the set of profiles and the name of the active one.
// It is safe for concurrent use: the dispatch loop resolves labels while the
// HTTP API or tray switch profiles and rebind gestures.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	active   string
}

// NewStore returns a store with a single empty "default" profile, which is active.
func NewStore() *Store {
	return &Store{
		profiles: map[string]*Profile{DefaultName: New(DefaultName)},
		active:   DefaultName,
	}
}

// Switch makes name the active profile, creating an empty one if it does not exist.
func (s *Store) Switch(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(name)
	s.active = name
}

// Active returns the name of the active profile.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Rebind binds label to a in the active profile.
func (s *Store) Rebind(label string, a action.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[s.active].Bind(label, a)
}

// RebindProfile binds label to a in the named profile, creating the profile if needed.
func (s *Store) RebindProfile(name, label string, a action.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(name).Bind(label, a)
}

// UnbindProfile removes label from the named profile. It reports false if
// the profile does not exist.
func (s *Store) UnbindProfile(name, label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[name]
	if !ok {
		return false
	}
	p.Unbind(label)
	return true
}

// Resolve returns the action bound to label in the active profile.
func (s *Store) Resolve(label string) action.Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.profiles[s.active].Resolve(label)
}

// Names returns all profile names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile returns a copy of the named profile.
func (s *Store) Profile(name string) (*Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Replace swaps in a new set of profiles, as after reloading the keymap file.
// The active profile name is kept; if it is missing from profiles an empty one
// is created for it.
func (s *Store) Replace(profiles map[string]*Profile) {
	next := make(map[string]*Profile, len(profiles)+1)
	for name, p := range profiles {
		c := p.Clone()
		c.Name = name
		next[name] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = next
	s.ensure(s.active)
}

// snapshot returns copies of all profiles. Used by the codec.
func (s *Store) snapshot() map[string]*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*Profile, len(s.profiles))
	for name, p := range s.profiles {
		out[name] = p.Clone()
	}
	return out
}

// ensure must be called with s.mu held for writing.
func (s *Store) ensure(name string) *Profile {
	p, ok := s.profiles[name]
	if !ok {
		p = New(name)
		s.profiles[name] = p
	}
	return p
}
