package input

import (
	"fmt"
	"unicode"

	"github.com/ayusman/mudra/internal/action"
)

// Windows virtual-key codes for named keys.
// Reference: https://learn.microsoft.com/en-us/windows/win32/inputdev/virtual-key-codes
var namedKeyCodes = map[string]uint16{
	"ctrl":    0x11,
	"ctrl_l":  0xA2,
	"ctrl_r":  0xA3,
	"alt":     0x12,
	"alt_l":   0xA4,
	"alt_r":   0xA5,
	"alt_gr":  0xA5,
	"shift":   0x10,
	"shift_l": 0xA0,
	"shift_r": 0xA1,
	"cmd":     0x5B,
	"cmd_l":   0x5B,
	"cmd_r":   0x5C,

	"enter":        0x0D,
	"esc":          0x1B,
	"tab":          0x09,
	"space":        0x20,
	"backspace":    0x08,
	"delete":       0x2E,
	"insert":       0x2D,
	"home":         0x24,
	"end":          0x23,
	"page_up":      0x21,
	"page_down":    0x22,
	"up":           0x26,
	"down":         0x28,
	"left":         0x25,
	"right":        0x27,
	"caps_lock":    0x14,
	"num_lock":     0x90,
	"scroll_lock":  0x91,
	"print_screen": 0x2C,
	"pause":        0x13,
	"menu":         0x5D,

	"media_play_pause":  0xB3,
	"media_next":        0xB0,
	"media_previous":    0xB1,
	"media_volume_up":   0xAF,
	"media_volume_down": 0xAE,
	"media_volume_mute": 0xAD,
}

// US-layout punctuation. '+' shares the '=' key; bind it with shift.
var charKeyCodes = map[rune]uint16{
	' ':  0x20,
	';':  0xBA,
	'=':  0xBB,
	'+':  0xBB,
	',':  0xBC,
	'-':  0xBD,
	'.':  0xBE,
	'/':  0xBF,
	'`':  0xC0,
	'[':  0xDB,
	'\\': 0xDC,
	']':  0xDD,
	'\'': 0xDE,
}

// extendedKeys need KEYEVENTF_EXTENDEDKEY on Windows.
var extendedKeys = map[uint16]bool{
	0x21: true, 0x22: true, 0x23: true, 0x24: true,
	0x25: true, 0x26: true, 0x27: true, 0x28: true,
	0x2D: true, 0x2E: true, 0xA3: true, 0xA5: true,
	0x5B: true, 0x5C: true, 0x5D: true,
}

// KeyCode returns the virtual-key code for k. Letters map to their key
// regardless of case; shift must be part of the combo to type upper case.
func KeyCode(k action.Key) (uint16, error) {
	if k.Kind == action.KeyNamed {
		if code, ok := namedKeyCodes[k.Name]; ok {
			return code, nil
		}
		if n, ok := functionKey(k.Name); ok {
			return 0x70 + uint16(n-1), nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnmappedKey, k.Name)
	}

	r := unicode.ToLower(k.Char)
	switch {
	case r >= 'a' && r <= 'z':
		return 0x41 + uint16(r-'a'), nil
	case r >= '0' && r <= '9':
		return 0x30 + uint16(r-'0'), nil
	}
	if code, ok := charKeyCodes[r]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnmappedKey, k.Char)
}

// functionKey parses "f1".."f20".
func functionKey(name string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err != nil {
		return 0, false
	}
	if n < 1 || n > 20 || name != fmt.Sprintf("f%d", n) {
		return 0, false
	}
	return n, true
}
