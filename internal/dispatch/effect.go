package dispatch

import (
	"time"

	"github.com/ayusman/mudra/internal/action"
)

// EffectKind names an actuator operation.
type EffectKind string

const (
	EffectPressKeys   EffectKind = "press_keys"
	EffectTapKey      EffectKind = "tap_key"
	EffectReleaseKeys EffectKind = "release_keys"
	EffectMouseDown   EffectKind = "mouse_down"
	EffectMouseUp     EffectKind = "mouse_up"
	EffectMove        EffectKind = "move"
)

// Effect describes one actuator call made by the engine.
type Effect struct {
	Kind    EffectKind
	Label   string
	Profile string
	Keys    []action.Key
	Button  action.Button
	DX, DY  int
	Err     error
	At      time.Time
}

// Detail renders the effect's arguments, e.g. "ctrl+c", "left" or "(4,-2)".
func (ef Effect) Detail() string {
	switch ef.Kind {
	case EffectPressKeys, EffectTapKey, EffectReleaseKeys:
		return action.Encode(action.KeyCombo{Keys: ef.Keys})
	case EffectMouseDown, EffectMouseUp:
		return ef.Button.String()
	case EffectMove:
		return Point{X: ef.DX, Y: ef.DY}.String()
	default:
		return ""
	}
}
