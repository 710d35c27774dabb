// Package tray provides the system tray menu of the gesture daemon.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/dispatch"
)

// Tray is the system tray menu: a dispatch toggle, a profile switcher, the
// last effect and quit.
type Tray struct {
	onToggle   func(enabled bool)
	onProfile  func(name string)
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	menuToggle     *systray.MenuItem
	menuLastAction *systray.MenuItem
	menuProfiles   *systray.MenuItem
	profileItems   map[string]*systray.MenuItem

	// profiles and active are applied when the menu becomes ready.
	profiles []string
	active   string
}

// New creates a tray with dispatch enabled.
func New() *Tray {
	return &Tray{
		enabled:      true,
		profileItems: make(map[string]*systray.MenuItem),
	}
}

// OnToggle is called with the new state when the toggle item is clicked.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnProfile sets the callback for picking a profile from the menu.
func (t *Tray) OnProfile(fn func(name string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onProfile = fn
}

// OnSettings is called when the status page item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit is called when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It blocks until Quit is called and must run on
// the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra gesture control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume gesture dispatch")
	systray.AddSeparator()

	t.menuLastAction = systray.AddMenuItem("Last: none", "Last gesture action")
	t.menuLastAction.Disable()
	t.menuProfiles = systray.AddMenuItem("Profile", "Switch the active profile")
	systray.AddSeparator()
	t.mu.Unlock()

	menuSettings := systray.AddMenuItem("Open Status Page", "Show pipeline status in the browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	t.mu.RLock()
	names, active := t.profiles, t.active
	t.mu.RUnlock()
	t.SetProfiles(names, active)

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Paused"
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleProfile(name string) {
	t.mu.RLock()
	callback := t.onProfile
	t.mu.RUnlock()

	if callback != nil {
		callback(name)
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetEnabled reflects a dispatch state changed elsewhere, such as the HTTP API.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetProfiles updates the profile submenu. Menu items cannot be removed, so
// profiles that disappear are hidden.
func (t *Tray) SetProfiles(names []string, active string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.profiles, t.active = names, active
	if t.menuProfiles == nil {
		return
	}
	t.menuProfiles.SetTitle("Profile: " + active)

	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
		item, ok := t.profileItems[name]
		if !ok {
			item = t.menuProfiles.AddSubMenuItem(name, "Switch to "+name)
			t.profileItems[name] = item
			go func(name string, clicked chan struct{}) {
				for range clicked {
					t.handleProfile(name)
				}
			}(name, item.ClickedCh)
		}
		item.Show()
		if name == active {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	for name, item := range t.profileItems {
		if !present[name] {
			item.Hide()
		}
	}
}

// SetLastAction shows an effect in the menu.
func (t *Tray) SetLastAction(ef dispatch.Effect) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastAction != nil {
		t.menuLastAction.SetTitle(lastActionTitle(ef))
	}
}

func lastActionTitle(ef dispatch.Effect) string {
	if ef.Label == "" {
		return "Last: none"
	}
	title := fmt.Sprintf("Last: %s %s %s", ef.Label, ef.Kind, ef.Detail())
	if ef.Err != nil {
		title += " (failed)"
	}
	return title
}

// IsEnabled reports whether dispatch is enabled in the menu.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
