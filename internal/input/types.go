// Package input injects synthetic keyboard and mouse events into the OS.
package input

import "errors"

// Mouse buttons understood by InjectMouseButton.
const (
	ButtonLeft  = 1
	ButtonRight = 2
)

var (
	// ErrUnsupported is returned on platforms without an injection backend.
	ErrUnsupported = errors.New("input injection not supported on this platform")
	// ErrUnmappedKey is returned for keys with no virtual-key code.
	ErrUnmappedKey = errors.New("no key code for key")
)

// InputInjector emits raw input events. Key codes are Windows virtual-key
// codes; other platforms translate them.
type InputInjector interface {
	InjectMouseMove(dx, dy int) error
	InjectMouseButton(button int, pressed bool) error
	InjectKey(keyCode uint16, pressed bool) error
}
