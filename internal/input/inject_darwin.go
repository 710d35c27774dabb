//go:build darwin

package input

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices

#include <stdbool.h>
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <ApplicationServices/ApplicationServices.h>

static bool hasAccessibilityPermissions() {
    return AXIsProcessTrusted();
}

static CGPoint currentMousePosition() {
    CGEventRef event = CGEventCreate(NULL);
    CGPoint cursor = CGEventGetLocation(event);
    CFRelease(event);
    return cursor;
}

static void injectMouseMove(CGFloat dx, CGFloat dy, int held) {
    CGPoint cur = currentMousePosition();
    CGPoint next = CGPointMake(cur.x + dx, cur.y + dy);
    CGEventType type = kCGEventMouseMoved;
    CGMouseButton button = kCGMouseButtonLeft;
    if (held == 1) {
        type = kCGEventLeftMouseDragged;
    } else if (held == 2) {
        type = kCGEventRightMouseDragged;
        button = kCGMouseButtonRight;
    }
    CGEventRef event = CGEventCreateMouseEvent(NULL, type, next, button);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}

static void injectMouseButton(int button, bool pressed) {
    CGMouseButton cgButton;
    CGEventType type;
    if (button == 1) {
        cgButton = kCGMouseButtonLeft;
        type = pressed ? kCGEventLeftMouseDown : kCGEventLeftMouseUp;
    } else if (button == 2) {
        cgButton = kCGMouseButtonRight;
        type = pressed ? kCGEventRightMouseDown : kCGEventRightMouseUp;
    } else {
        return;
    }
    CGEventRef event = CGEventCreateMouseEvent(NULL, type, currentMousePosition(), cgButton);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}

static void injectKey(CGKeyCode keyCode, bool pressed) {
    CGEventRef event = CGEventCreateKeyboardEvent(NULL, keyCode, pressed);
    CGEventPost(kCGSessionEventTap, event);
    CFRelease(event);
}
*/
import "C"

import (
	"fmt"
	"sync"
)

// macOS implementation of input injection using CoreGraphics.

// Windows VK code to macOS CGKeyCode.
var windowsToMacKeyMap = map[uint16]uint16{
	// Letters
	0x41: 0x00, 0x42: 0x0B, 0x43: 0x08, 0x44: 0x02, 0x45: 0x0E, 0x46: 0x03,
	0x47: 0x05, 0x48: 0x04, 0x49: 0x22, 0x4A: 0x26, 0x4B: 0x28, 0x4C: 0x25,
	0x4D: 0x2E, 0x4E: 0x2D, 0x4F: 0x1F, 0x50: 0x23, 0x51: 0x0C, 0x52: 0x0F,
	0x53: 0x01, 0x54: 0x11, 0x55: 0x20, 0x56: 0x09, 0x57: 0x0D, 0x58: 0x07,
	0x59: 0x10, 0x5A: 0x06,

	// Digits
	0x30: 0x1D, 0x31: 0x12, 0x32: 0x13, 0x33: 0x14, 0x34: 0x15,
	0x35: 0x17, 0x36: 0x16, 0x37: 0x1A, 0x38: 0x1C, 0x39: 0x19,

	// Function keys
	0x70: 0x7A, 0x71: 0x78, 0x72: 0x63, 0x73: 0x76, 0x74: 0x60,
	0x75: 0x61, 0x76: 0x62, 0x77: 0x64, 0x78: 0x65, 0x79: 0x6D,
	0x7A: 0x67, 0x7B: 0x6F, 0x7C: 0x69, 0x7D: 0x6B, 0x7E: 0x71,
	0x7F: 0x6A, 0x80: 0x40, 0x81: 0x4F, 0x82: 0x50, 0x83: 0x5A,

	// Editing and navigation
	0x08: 0x33, 0x09: 0x30, 0x0D: 0x24, 0x14: 0x39, 0x1B: 0x35, 0x20: 0x31,
	0x25: 0x7B, 0x26: 0x7E, 0x27: 0x7C, 0x28: 0x7D,
	0x21: 0x74, 0x22: 0x79, 0x23: 0x77, 0x24: 0x73, 0x2D: 0x72, 0x2E: 0x75,

	// Modifiers
	0x10: 0x38, 0x11: 0x3B, 0x12: 0x3A,
	0xA0: 0x38, 0xA1: 0x3C, 0xA2: 0x3B, 0xA3: 0x3E, 0xA4: 0x3A, 0xA5: 0x3D,
	0x5B: 0x37, 0x5C: 0x36,

	// Punctuation
	0xBA: 0x29, 0xBB: 0x18, 0xBC: 0x2B, 0xBD: 0x1B, 0xBE: 0x2F, 0xBF: 0x2C,
	0xC0: 0x32, 0xDB: 0x21, 0xDC: 0x2A, 0xDD: 0x1E, 0xDE: 0x27,

	// Volume
	0xAD: 0x4A, 0xAE: 0x49, 0xAF: 0x48,
}

// Injector injects input through CoreGraphics events.
type Injector struct {
	mu   sync.Mutex
	held int
}

var _ InputInjector = (*Injector)(nil)

// NewInjector creates a macOS injector.
func NewInjector() *Injector {
	return &Injector{}
}

// HasAccessibility reports whether the process may post input events.
func HasAccessibility() bool {
	return bool(C.hasAccessibilityPermissions())
}

// InjectMouseMove moves the pointer by a relative offset. While a button is
// held the move is posted as a drag.
func (i *Injector) InjectMouseMove(dx, dy int) error {
	i.mu.Lock()
	held := i.held
	i.mu.Unlock()

	C.injectMouseMove(C.CGFloat(dx), C.CGFloat(dy), C.int(held))
	return nil
}

// InjectMouseButton presses or releases a mouse button.
func (i *Injector) InjectMouseButton(button int, pressed bool) error {
	if button != ButtonLeft && button != ButtonRight {
		return fmt.Errorf("unsupported mouse button %d", button)
	}

	i.mu.Lock()
	if pressed {
		i.held = button
	} else if i.held == button {
		i.held = 0
	}
	i.mu.Unlock()

	C.injectMouseButton(C.int(button), C.bool(pressed))
	return nil
}

// InjectKey presses or releases a key given its Windows virtual-key code.
func (i *Injector) InjectKey(keyCode uint16, pressed bool) error {
	macCode, ok := windowsToMacKeyMap[keyCode]
	if !ok {
		return fmt.Errorf("%w: vk 0x%02X", ErrUnmappedKey, keyCode)
	}
	C.injectKey(C.CGKeyCode(macCode), C.bool(pressed))
	return nil
}
