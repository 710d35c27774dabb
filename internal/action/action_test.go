package action

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Key
		wantOK bool
	}{
		{name: "named modifier", input: "ctrl", want: Named("ctrl"), wantOK: true},
		{name: "named is case-insensitive", input: "Enter", want: Named("enter"), wantOK: true},
		{name: "alias", input: "escape", want: Named("esc"), wantOK: true},
		{name: "function key", input: "f5", want: Named("f5"), wantOK: true},
		{name: "literal letter", input: "c", want: Char('c'), wantOK: true},
		{name: "literal keeps case", input: "C", want: Char('C'), wantOK: true},
		{name: "unknown name uses first rune", input: "xyz", want: Char('x'), wantOK: true},
		{name: "cyrillic remapped", input: "с", want: Char('c'), wantOK: true},
		{name: "upper cyrillic remapped", input: "Ф", want: Char('a'), wantOK: true},
		{name: "surrounding space trimmed", input: " shift ", want: Named("shift"), wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "blank", input: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKey(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseKey(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCombo_SkipsEmptySegments(t *testing.T) {
	combo := ParseCombo("ctrl++c+")
	if len(combo.Keys) != 2 {
		t.Fatalf("len(Keys) = %d, want 2", len(combo.Keys))
	}
	if combo.Keys[0] != Named("ctrl") || combo.Keys[1] != Char('c') {
		t.Errorf("Keys = %+v, want [ctrl c]", combo.Keys)
	}
}

func TestKeyCombo_ModifiersAndFinal(t *testing.T) {
	combo := ParseCombo("ctrl+shift+t")

	mods := combo.Modifiers()
	if len(mods) != 2 || mods[0] != Named("ctrl") || mods[1] != Named("shift") {
		t.Errorf("Modifiers() = %+v, want [ctrl shift]", mods)
	}

	final, ok := combo.Final()
	if !ok || final != Char('t') {
		t.Errorf("Final() = %+v, %v, want t, true", final, ok)
	}

	single := ParseCombo("space")
	if single.Modifiers() != nil {
		t.Errorf("single key Modifiers() = %+v, want nil", single.Modifiers())
	}

	if _, ok := (KeyCombo{}).Final(); ok {
		t.Error("empty combo Final() should report ok = false")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{input: "Left mouse", want: MouseButton{Button: ButtonLeft}},
		{input: "Left mouse (LMB)", want: MouseButton{Button: ButtonLeft}},
		{input: "Right mouse", want: MouseButton{Button: ButtonRight}},
		{input: "Mouse move", want: MouseMove{}},
		{input: "None", want: NoAction{}},
		{input: "ctrl+c", want: KeyCombo{Keys: []Key{Named("ctrl"), Char('c')}}},
		{input: "", want: KeyCombo{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Decode(tt.input)
			if !Equal(got, tt.want) {
				t.Errorf("Decode(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	actions := []Action{
		KeyCombo{Keys: []Key{Named("ctrl"), Named("alt"), Char('t')}},
		KeyCombo{Keys: []Key{Named("f11")}},
		KeyCombo{Keys: []Key{Named("shift"), Char('+')}},
		KeyCombo{Keys: []Key{Char(' ')}},
		KeyCombo{Keys: []Key{Named("ctrl"), Char('\t')}},
		KeyCombo{},
		MouseButton{Button: ButtonLeft},
		MouseButton{Button: ButtonRight},
		MouseMove{},
		NoAction{},
	}

	for _, a := range actions {
		encoded := Encode(a)
		if got := Decode(encoded); !Equal(got, a) {
			t.Errorf("Decode(Encode(%#v)) = %#v (encoded %q)", a, got, encoded)
		}
	}
}

func TestEncode_SeparatorAndWhitespaceKeys(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{KeyCombo{Keys: []Key{Named("shift"), Char('+')}}, "shift+plus"},
		{KeyCombo{Keys: []Key{Char(' ')}}, "space"},
		{KeyCombo{Keys: []Key{Named("ctrl"), Char('\n')}}, "ctrl+enter"},
	}
	for _, tt := range tests {
		if got := Encode(tt.action); got != tt.want {
			t.Errorf("Encode(%#v) = %q, want %q", tt.action, got, tt.want)
		}
	}

	if k, ok := ParseKey("Plus"); !ok || k != Char('+') {
		t.Errorf("ParseKey(Plus) = %#v, %v, want literal '+'", k, ok)
	}
	if k := Char(' '); k != Named("space") {
		t.Errorf("Char(' ') = %#v, want named space", k)
	}
}

func TestEncode_LegacyAliasNormalized(t *testing.T) {
	if got := Encode(Decode("Left mouse (LMB)")); got != EncodedLeftMouse {
		t.Errorf("Encode(Decode(legacy)) = %q, want %q", got, EncodedLeftMouse)
	}
}

func TestActionClassification(t *testing.T) {
	tests := []struct {
		action   Action
		holdable bool
		motion   bool
	}{
		{action: KeyCombo{Keys: []Key{Char('a')}}, holdable: false, motion: false},
		{action: MouseButton{Button: ButtonLeft}, holdable: true, motion: true},
		{action: MouseMove{}, holdable: false, motion: true},
		{action: NoAction{}, holdable: false, motion: false},
	}

	for _, tt := range tests {
		if _, got := HeldButton(tt.action); got != tt.holdable {
			t.Errorf("HeldButton(%v) held = %v, want %v", tt.action, got, tt.holdable)
		}
		if got := IsMotionCapable(tt.action); got != tt.motion {
			t.Errorf("IsMotionCapable(%v) = %v, want %v", tt.action, got, tt.motion)
		}
	}
}

func TestHeldButton(t *testing.T) {
	if b, ok := HeldButton(MouseButton{Button: ButtonRight}); !ok || b != ButtonRight {
		t.Errorf("HeldButton(right) = %v, %v", b, ok)
	}
}

func TestEqual_DistinguishesKinds(t *testing.T) {
	if Equal(MouseButton{Button: ButtonLeft}, MouseButton{Button: ButtonRight}) {
		t.Error("left and right buttons should differ")
	}
	if Equal(KeyCombo{}, NoAction{}) {
		t.Error("empty combo and NoAction should differ")
	}
	if Equal(KeyCombo{Keys: []Key{Char('a')}}, KeyCombo{Keys: []Key{Char('b')}}) {
		t.Error("combos with different keys should differ")
	}
}

func TestKey_IsModifier(t *testing.T) {
	if !Named("shift_l").IsModifier() {
		t.Error("shift_l should be a modifier")
	}
	if Named("enter").IsModifier() {
		t.Error("enter should not be a modifier")
	}
	if Char('c').IsModifier() {
		t.Error("literal keys are never modifiers")
	}
}
