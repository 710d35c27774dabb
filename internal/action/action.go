// Package action defines the device actions a gesture label can be bound to.
package action

import "fmt"

// Button identifies a mouse button.
type Button int

const (
	// ButtonLeft is the primary mouse button.
	ButtonLeft Button = iota + 1
	// ButtonRight is the secondary mouse button.
	ButtonRight
)

// String returns a lower-case name for the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// Action is the device effect bound to a gesture label.
// The set of implementations is closed: KeyCombo, MouseButton, MouseMove and NoAction.
type Action interface {
	// String returns the persisted encoding of the action.
	String() string
	actionMarker()
}

// KeyCombo is an ordered sequence of keys. All but the last are held as
// modifiers while the last one is tapped.
type KeyCombo struct {
	Keys []Key
}

// MouseButton presses a button when its gesture is entered and releases it
// when the gesture is left. While held, fingertip motion drags the pointer.
type MouseButton struct {
	Button Button
}

// MouseMove moves the pointer by the fingertip displacement on every frame.
type MouseMove struct{}

// NoAction does nothing.
type NoAction struct{}

func (KeyCombo) actionMarker()    {}
func (MouseButton) actionMarker() {}
func (MouseMove) actionMarker()   {}
func (NoAction) actionMarker()    {}

func (a KeyCombo) String() string    { return Encode(a) }
func (a MouseButton) String() string { return Encode(a) }
func (a MouseMove) String() string   { return Encode(a) }
func (a NoAction) String() string    { return Encode(a) }

// Modifiers returns every key except the last.
func (a KeyCombo) Modifiers() []Key {
	if len(a.Keys) < 2 {
		return nil
	}
	return a.Keys[:len(a.Keys)-1]
}

// Final returns the tapped key. ok is false for an empty combo.
func (a KeyCombo) Final() (Key, bool) {
	if len(a.Keys) == 0 {
		return Key{}, false
	}
	return a.Keys[len(a.Keys)-1], true
}

// HeldButton returns the button an action holds down while its gesture is
// active. Only MouseButton actions hold a button.
func HeldButton(a Action) (Button, bool) {
	mb, ok := a.(MouseButton)
	return mb.Button, ok
}

// IsMotionCapable reports whether fingertip displacement moves the pointer
// while the action's gesture is active.
func IsMotionCapable(a Action) bool {
	switch a.(type) {
	case MouseButton, MouseMove:
		return true
	default:
		return false
	}
}

// Equal compares two actions by value. Interface comparison with == panics
// for KeyCombo, so callers should use this instead.
func Equal(a, b Action) bool {
	switch x := a.(type) {
	case KeyCombo:
		y, ok := b.(KeyCombo)
		if !ok || len(x.Keys) != len(y.Keys) {
			return false
		}
		for i := range x.Keys {
			if x.Keys[i] != y.Keys[i] {
				return false
			}
		}
		return true
	case MouseButton:
		y, ok := b.(MouseButton)
		return ok && x.Button == y.Button
	case MouseMove:
		_, ok := b.(MouseMove)
		return ok
	case NoAction:
		_, ok := b.(NoAction)
		return ok
	case nil:
		return b == nil
	default:
		return false
	}
}
