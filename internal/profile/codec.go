package profile

import (
	"encoding/json"
	"fmt"

	"github.com/ayusman/mudra/internal/action"
)

// Document is the persisted keymap: profile name -> label -> encoded action.
type Document map[string]map[string]string

// Marshal encodes every profile in the store.
func Marshal(s *Store) ([]byte, error) {
	doc := make(Document)
	for name, p := range s.snapshot() {
		bindings := make(map[string]string)
		for label, a := range p.Bindings() {
			bindings[label] = action.Encode(a)
		}
		doc[name] = bindings
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes a keymap document. Top-level string values are bindings
// in the older single-profile format and are collected into the default
// profile; object values are named profiles.
func Unmarshal(data []byte) (map[string]*Profile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse keymap: %w", err)
	}

	profiles := make(map[string]*Profile)
	get := func(name string) *Profile {
		p, ok := profiles[name]
		if !ok {
			p = New(name)
			profiles[name] = p
		}
		return p
	}

	for key, value := range raw {
		var encoded string
		if err := json.Unmarshal(value, &encoded); err == nil {
			get(DefaultName).Bind(key, action.Decode(encoded))
			continue
		}

		var bindings map[string]string
		if err := json.Unmarshal(value, &bindings); err != nil {
			return nil, fmt.Errorf("profile %q: expected object of strings: %w", key, err)
		}
		p := get(key)
		for label, enc := range bindings {
			p.Bind(label, action.Decode(enc))
		}
	}

	return profiles, nil
}
