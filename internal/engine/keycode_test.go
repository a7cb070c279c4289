package engine

import "testing"

func TestKeyCodePhysicalPairs(t *testing.T) {
	tests := []struct {
		name     string
		plain    KeyCode
		shifted  KeyCode
		physical string
	}{
		{"grave", KeyGrave, KeyTilde, "Grave"},
		{"digit 1", Key1, KeyExclaim, "1"},
		{"digit 0", Key0, KeyParenRight, "0"},
		{"digit 9", Key9, KeyParenLeft, "9"},
		{"letter a", KeyA, KeyAShift, "A"},
		{"letter z", KeyZ, KeyZShift, "Z"},
		{"bracket", KeyBracketLeft, KeyBraceLeft, "BracketLeft"},
		{"slash", KeySlash, KeyQuestion, "Slash"},
		{"quote", KeyApostrophe, KeyQuote, "Quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plain.Physical(); got != tt.physical {
				t.Errorf("%v.Physical() = %q, want %q", tt.plain, got, tt.physical)
			}
			if got := tt.shifted.Physical(); got != tt.physical {
				t.Errorf("%v.Physical() = %q, want %q", tt.shifted, got, tt.physical)
			}
			if tt.plain.Shifted() {
				t.Errorf("%v should not be shifted", tt.plain)
			}
			if !tt.shifted.Shifted() {
				t.Errorf("%v should be shifted", tt.shifted)
			}
		})
	}
}

func TestKeyCodeChar(t *testing.T) {
	if got := KeyA.Char(); got != 'a' {
		t.Errorf("KeyA.Char() = %q, want 'a'", got)
	}
	if got := KeyAShift.Char(); got != 'A' {
		t.Errorf("KeyAShift.Char() = %q, want 'A'", got)
	}
	if got := KeyKP7.Char(); got != '7' {
		t.Errorf("KeyKP7.Char() = %q, want '7'", got)
	}
	if got := KeyNone.Char(); got != 0 {
		t.Errorf("KeyNone.Char() = %q, want 0", got)
	}
}

func TestKeyCodeEveryCodeHasAPhysicalKey(t *testing.T) {
	for k := KeyNone + 1; k < keyCount; k++ {
		if !k.Valid() {
			t.Fatalf("%d should be valid", k)
		}
		if k.Physical() == "" {
			t.Errorf("key code %d has no physical name", k)
		}
		if k.Char() == 0 {
			t.Errorf("key code %d has no character", k)
		}
	}
	if keyCount.Valid() {
		t.Error("keyCount must not be valid")
	}
}

func TestKeyCodeIsKeypad(t *testing.T) {
	if !KeyKPEnter.IsKeypad() || !KeyKP0.IsKeypad() || !KeyKPDivide.IsKeypad() {
		t.Error("keypad codes not reported as keypad")
	}
	if KeyQuote.IsKeypad() || Key0.IsKeypad() {
		t.Error("main block codes reported as keypad")
	}
}

func TestModifierHas(t *testing.T) {
	m := ModifierShift | ModifierAltGr
	if !m.Has(ModifierShift) || !m.Has(ModifierAltGr) {
		t.Error("expected both bits")
	}
	if ModifierShift.Has(ModifierAltGr) {
		t.Error("shift alone must not have AltGr")
	}
}
