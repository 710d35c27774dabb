//go:build !windows && !darwin

package input

// Stub implementation for platforms without native injection.
// Use the actuator plugin backend there instead.

// Injector is a stub that always fails.
type Injector struct{}

var _ InputInjector = (*Injector)(nil)

// NewInjector creates a stub injector.
func NewInjector() *Injector {
	return &Injector{}
}

// InjectMouseMove is unsupported on this platform.
func (i *Injector) InjectMouseMove(dx, dy int) error {
	return ErrUnsupported
}

// InjectMouseButton is unsupported on this platform.
func (i *Injector) InjectMouseButton(button int, pressed bool) error {
	return ErrUnsupported
}

// InjectKey is unsupported on this platform.
func (i *Injector) InjectKey(keyCode uint16, pressed bool) error {
	return ErrUnsupported
}
