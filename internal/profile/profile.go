// Package profile holds named gesture-to-action mappings and the store that
// tracks which mapping is active.
package profile

import (
	"sort"

	"github.com/ayusman/mudra/internal/action"
)

// DefaultName is the profile every store starts with.
const DefaultName = "default"

// Profile maps gesture labels to actions. Keyboard bindings and pointer
// bindings live in separate maps; a label is in at most one of them.
type Profile struct {
	Name   string
	keys   map[string]action.KeyCombo
	motion map[string]action.Action
}

// New returns an empty profile.
func New(name string) *Profile {
	return &Profile{
		Name:   name,
		keys:   make(map[string]action.KeyCombo),
		motion: make(map[string]action.Action),
	}
}

// Resolve returns the action bound to label, or NoAction if there is none.
func (p *Profile) Resolve(label string) action.Action {
	if combo, ok := p.keys[label]; ok {
		return combo
	}
	if a, ok := p.motion[label]; ok {
		return a
	}
	return action.NoAction{}
}

// Bind sets the action for label, replacing any previous binding in either map.
func (p *Profile) Bind(label string, a action.Action) {
	delete(p.keys, label)
	delete(p.motion, label)

	switch v := a.(type) {
	case action.KeyCombo:
		p.keys[label] = v
	case nil:
		p.motion[label] = action.NoAction{}
	default:
		p.motion[label] = v
	}
}

// Unbind removes any binding for label.
func (p *Profile) Unbind(label string) {
	delete(p.keys, label)
	delete(p.motion, label)
}

// Labels returns the bound labels in sorted order.
func (p *Profile) Labels() []string {
	labels := make([]string, 0, len(p.keys)+len(p.motion))
	for l := range p.keys {
		labels = append(labels, l)
	}
	for l := range p.motion {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Bindings returns a copy of all bindings.
func (p *Profile) Bindings() map[string]action.Action {
	out := make(map[string]action.Action, len(p.keys)+len(p.motion))
	for l, c := range p.keys {
		out[l] = c
	}
	for l, a := range p.motion {
		out[l] = a
	}
	return out
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := New(p.Name)
	for l, combo := range p.keys {
		keys := make([]action.Key, len(combo.Keys))
		copy(keys, combo.Keys)
		c.keys[l] = action.KeyCombo{Keys: keys}
	}
	for l, a := range p.motion {
		c.motion[l] = a
	}
	return c
}
