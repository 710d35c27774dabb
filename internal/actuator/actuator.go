// Package actuator turns dispatch decisions into synthetic keyboard and mouse input.
package actuator

import "github.com/ayusman/mudra/internal/action"

// Actuator emits device input. Every method may fail; callers treat failures
// as non-fatal.
type Actuator interface {
	// PressKeys presses and holds keys in order.
	PressKeys(keys []action.Key) error
	// TapKey presses and releases a single key.
	TapKey(key action.Key) error
	// ReleaseKeys releases keys previously pressed with PressKeys.
	ReleaseKeys(keys []action.Key) error
	// MouseDown presses a mouse button.
	MouseDown(button action.Button) error
	// MouseUp releases a mouse button.
	MouseUp(button action.Button) error
	// MoveRelative moves the pointer by (dx, dy) pixels.
	MoveRelative(dx, dy int) error
}
