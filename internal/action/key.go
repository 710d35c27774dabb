package action

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyKind distinguishes named keys from literal characters.
type KeyKind int

const (
	// KeyNamed is a key from the closed vocabulary (ctrl, enter, f5, ...).
	KeyNamed KeyKind = iota
	// KeyChar is a single literal character.
	KeyChar
)

// Key is either a named key or a literal character.
type Key struct {
	Kind KeyKind
	Name string
	Char rune
}

// Named returns the named key. The name is not checked against the vocabulary.
func Named(name string) Key {
	return Key{Kind: KeyNamed, Name: name}
}

// Char returns a literal character key. Whitespace characters that have a
// named key become that named key.
func Char(r rune) Key {
	if name, ok := whitespaceKeys[r]; ok {
		return Named(name)
	}
	return Key{Kind: KeyChar, Char: r}
}

// whitespaceKeys are characters that cannot survive a combo string as
// literals; they are written as named keys.
var whitespaceKeys = map[rune]string{
	' ':  "space",
	'\t': "tab",
	'\n': "enter",
	'\r': "enter",
}

// plusName spells the literal '+' key, which is also the combo separator.
const plusName = "plus"

// String returns the key's identifier as it appears in a combo string.
func (k Key) String() string {
	if k.Kind != KeyChar {
		return k.Name
	}
	if k.Char == '+' {
		return plusName
	}
	if name, ok := whitespaceKeys[k.Char]; ok {
		return name
	}
	return string(k.Char)
}

// IsModifier reports whether the key is a modifier.
func (k Key) IsModifier() bool {
	if k.Kind != KeyNamed {
		return false
	}
	_, ok := modifierKeys[k.Name]
	return ok
}

var modifierKeys = map[string]struct{}{
	"ctrl": {}, "ctrl_l": {}, "ctrl_r": {},
	"alt": {}, "alt_l": {}, "alt_r": {}, "alt_gr": {},
	"shift": {}, "shift_l": {}, "shift_r": {},
	"cmd": {}, "cmd_l": {}, "cmd_r": {},
}

// namedKeys is the closed vocabulary of named keys.
var namedKeys = func() map[string]struct{} {
	m := map[string]struct{}{}
	for name := range modifierKeys {
		m[name] = struct{}{}
	}
	for _, name := range []string{
		"enter", "esc", "tab", "space", "backspace", "delete", "insert",
		"home", "end", "page_up", "page_down", "up", "down", "left", "right",
		"caps_lock", "num_lock", "scroll_lock", "print_screen", "pause", "menu",
		"media_play_pause", "media_next", "media_previous",
		"media_volume_up", "media_volume_down", "media_volume_mute",
		"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10",
		"f11", "f12", "f13", "f14", "f15", "f16", "f17", "f18", "f19", "f20",
	} {
		m[name] = struct{}{}
	}
	return m
}()

var keyAliases = map[string]string{
	"control": "ctrl",
	"option":  "alt",
	"win":     "cmd",
	"super":   "cmd",
	"meta":    "cmd",
	"return":  "enter",
	"escape":  "esc",
	"del":     "delete",
	"pgup":    "page_up",
	"pgdn":    "page_down",
}

// IsNamedKey reports whether name is in the named-key vocabulary.
func IsNamedKey(name string) bool {
	_, ok := namedKeys[name]
	return ok
}

// ParseKey parses a single key identifier. Identifiers in the named vocabulary
// (case-insensitive) become named keys and "plus" is the literal '+' key; anything else becomes the literal
// character of its first rune. Cyrillic letters typed on a ЙЦУКЕН layout are
// mapped to the Latin letter on the same physical key. ok is false only for
// empty input.
func ParseKey(s string) (Key, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, false
	}

	lower := strings.ToLower(s)
	if lower == plusName {
		return Char('+'), true
	}
	if alias, ok := keyAliases[lower]; ok {
		lower = alias
	}
	if IsNamedKey(lower) {
		return Named(lower), true
	}

	r, _ := utf8.DecodeRuneInString(s)
	if latin, ok := layoutRemap[unicode.ToLower(r)]; ok {
		r = latin
	}
	return Char(r), true
}

// ParseCombo splits a "+"-joined string into a key combo. Empty segments are skipped.
func ParseCombo(s string) KeyCombo {
	var keys []Key
	for _, part := range strings.Split(s, "+") {
		if k, ok := ParseKey(part); ok {
			keys = append(keys, k)
		}
	}
	return KeyCombo{Keys: keys}
}

// layoutRemap maps Russian ЙЦУКЕН letters to the US QWERTY key in the same position.
var layoutRemap = map[rune]rune{
	'й': 'q', 'ц': 'w', 'у': 'e', 'к': 'r', 'е': 't', 'н': 'y',
	'г': 'u', 'ш': 'i', 'щ': 'o', 'з': 'p', 'х': '[', 'ъ': ']',
	'ф': 'a', 'ы': 's', 'в': 'd', 'а': 'f', 'п': 'g', 'р': 'h',
	'о': 'j', 'л': 'k', 'д': 'l', 'ж': ';', 'э': '\'',
	'я': 'z', 'ч': 'x', 'с': 'c', 'м': 'v', 'и': 'b', 'т': 'n',
	'ь': 'm', 'б': ',', 'ю': '.', 'ё': '`',
}
