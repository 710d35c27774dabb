package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayusman/mudra/internal/profile"
	"github.com/ayusman/mudra/internal/store"
)

// Persister saves profile changes: bindings go to the keymap file and the
// active profile name goes to the settings table.
type Persister struct {
	KeymapPath string
	Profiles   *profile.Store
	Settings   *store.SettingsRepository
	Logger     *slog.Logger
}

// Save writes the keymap and the active profile.
func (p *Persister) Save() error {
	if err := profile.SaveFile(p.KeymapPath, p.Profiles); err != nil {
		return err
	}
	if p.Settings == nil {
		return nil
	}
	if err := p.Settings.Set(store.SettingActiveProfile, p.Profiles.Active()); err != nil {
		return fmt.Errorf("save active profile: %w", err)
	}
	return nil
}

// RestoreActive switches to the profile saved by Save, if it still exists.
func (p *Persister) RestoreActive() error {
	if p.Settings == nil {
		return nil
	}
	name, err := p.Settings.Get(store.SettingActiveProfile)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read active profile: %w", err)
	}
	if _, ok := p.Profiles.Profile(name); !ok {
		if p.Logger != nil {
			p.Logger.Warn("saved active profile no longer exists", "profile", name)
		}
		return nil
	}
	p.Profiles.Switch(name)
	return nil
}
