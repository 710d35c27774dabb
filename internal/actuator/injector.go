package actuator

import (
	"fmt"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/input"
)

// Native drives the OS input APIs through an input.InputInjector.
type Native struct {
	inj input.InputInjector
}

// NewNative creates a Native actuator.
func NewNative(inj input.InputInjector) *Native {
	return &Native{inj: inj}
}

func keyCodes(keys []action.Key) ([]uint16, error) {
	codes := make([]uint16, len(keys))
	for i, k := range keys {
		code, err := input.KeyCode(k)
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

func inputButton(b action.Button) (int, error) {
	switch b {
	case action.ButtonLeft:
		return input.ButtonLeft, nil
	case action.ButtonRight:
		return input.ButtonRight, nil
	default:
		return 0, fmt.Errorf("unknown mouse button %d", b)
	}
}

// PressKeys presses keys in order. If a press fails the keys already pressed
// are released again.
func (n *Native) PressKeys(keys []action.Key) error {
	codes, err := keyCodes(keys)
	if err != nil {
		return err
	}
	for i, code := range codes {
		if err := n.inj.InjectKey(code, true); err != nil {
			for j := i - 1; j >= 0; j-- {
				n.inj.InjectKey(codes[j], false)
			}
			return fmt.Errorf("press %s: %w", keys[i], err)
		}
	}
	return nil
}

// TapKey presses and releases key.
func (n *Native) TapKey(key action.Key) error {
	code, err := input.KeyCode(key)
	if err != nil {
		return err
	}
	if err := n.inj.InjectKey(code, true); err != nil {
		return fmt.Errorf("tap %s: %w", key, err)
	}
	if err := n.inj.InjectKey(code, false); err != nil {
		return fmt.Errorf("tap %s: %w", key, err)
	}
	return nil
}

// ReleaseKeys releases keys in reverse order. Every key is attempted; the
// first error is returned.
func (n *Native) ReleaseKeys(keys []action.Key) error {
	codes, err := keyCodes(keys)
	if err != nil {
		return err
	}
	var first error
	for i := len(codes) - 1; i >= 0; i-- {
		if err := n.inj.InjectKey(codes[i], false); err != nil && first == nil {
			first = fmt.Errorf("release %s: %w", keys[i], err)
		}
	}
	return first
}

// MouseDown implements Actuator.
func (n *Native) MouseDown(button action.Button) error {
	b, err := inputButton(button)
	if err != nil {
		return err
	}
	return n.inj.InjectMouseButton(b, true)
}

// MouseUp implements Actuator.
func (n *Native) MouseUp(button action.Button) error {
	b, err := inputButton(button)
	if err != nil {
		return err
	}
	return n.inj.InjectMouseButton(b, false)
}

// MoveRelative implements Actuator.
func (n *Native) MoveRelative(dx, dy int) error {
	return n.inj.InjectMouseMove(dx, dy)
}
