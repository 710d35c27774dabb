package action

import "strings"

// Reserved encodings for non-keyboard actions.
const (
	EncodedLeftMouse  = "Left mouse"
	EncodedRightMouse = "Right mouse"
	EncodedMouseMove  = "Mouse move"
	EncodedNone       = "None"

	// legacyLeftMouse was written by older keymap editors.
	legacyLeftMouse = "Left mouse (LMB)"
)

// Encode returns the string form of an action as persisted in keymap files.
// KeyCombo encodes as "+"-joined key identifiers; the mouse actions and
// NoAction use reserved words.
func Encode(a Action) string {
	switch v := a.(type) {
	case KeyCombo:
		parts := make([]string, len(v.Keys))
		for i, k := range v.Keys {
			parts[i] = k.String()
		}
		return strings.Join(parts, "+")
	case MouseButton:
		if v.Button == ButtonRight {
			return EncodedRightMouse
		}
		return EncodedLeftMouse
	case MouseMove:
		return EncodedMouseMove
	default:
		return EncodedNone
	}
}

// Decode parses the string form of an action. Anything that is not a
// reserved word is a key combo; unknown key names become literal characters.
func Decode(s string) Action {
	switch strings.TrimSpace(s) {
	case EncodedLeftMouse, legacyLeftMouse:
		return MouseButton{Button: ButtonLeft}
	case EncodedRightMouse:
		return MouseButton{Button: ButtonRight}
	case EncodedMouseMove:
		return MouseMove{}
	case EncodedNone:
		return NoAction{}
	}
	return ParseCombo(s)
}
