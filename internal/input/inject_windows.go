//go:build windows

package input

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows implementation of input injection using SendInput.

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseeventfMove      = 0x0001
	mouseeventfLeftDown  = 0x0002
	mouseeventfLeftUp    = 0x0004
	mouseeventfRightDown = 0x0008
	mouseeventfRightUp   = 0x0010

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// INPUT is a tagged union; MOUSEINPUT is its largest member.
type mouseRecord struct {
	inputType uint32
	mi        mouseInput
}

type keybdRecord struct {
	inputType uint32
	ki        keybdInput
	_         [8]byte
}

// Injector injects input through SendInput.
type Injector struct{}

var _ InputInjector = (*Injector)(nil)

// NewInjector creates a Windows injector.
func NewInjector() *Injector {
	return &Injector{}
}

func sendInput(ptr unsafe.Pointer) error {
	n, _, err := procSendInput.Call(1, uintptr(ptr), unsafe.Sizeof(mouseRecord{}))
	if n != 1 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}

// InjectMouseMove moves the pointer by a relative offset.
func (i *Injector) InjectMouseMove(dx, dy int) error {
	rec := mouseRecord{
		inputType: inputMouse,
		mi: mouseInput{
			dx:      int32(dx),
			dy:      int32(dy),
			dwFlags: mouseeventfMove,
		},
	}
	return sendInput(unsafe.Pointer(&rec))
}

// InjectMouseButton presses or releases a mouse button.
func (i *Injector) InjectMouseButton(button int, pressed bool) error {
	var flags uint32
	switch {
	case button == ButtonLeft && pressed:
		flags = mouseeventfLeftDown
	case button == ButtonLeft:
		flags = mouseeventfLeftUp
	case button == ButtonRight && pressed:
		flags = mouseeventfRightDown
	case button == ButtonRight:
		flags = mouseeventfRightUp
	default:
		return fmt.Errorf("unsupported mouse button %d", button)
	}

	rec := mouseRecord{
		inputType: inputMouse,
		mi:        mouseInput{dwFlags: flags},
	}
	return sendInput(unsafe.Pointer(&rec))
}

// InjectKey presses or releases a key by virtual-key code.
func (i *Injector) InjectKey(keyCode uint16, pressed bool) error {
	var flags uint32
	if !pressed {
		flags |= keyeventfKeyUp
	}
	if extendedKeys[keyCode] {
		flags |= keyeventfExtendedKey
	}

	rec := keybdRecord{
		inputType: inputKeyboard,
		ki: keybdInput{
			wVk:     keyCode,
			dwFlags: flags,
		},
	}
	return sendInput(unsafe.Pointer(&rec))
}
