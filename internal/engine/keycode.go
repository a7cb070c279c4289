package engine

// KeyCode is the engine's key vocabulary. Shifted variants of the same
// physical key get distinct codes.
type KeyCode uint16

// Key codes. KeyNone is never produced by a translator.
const (
	KeyNone KeyCode = iota

	KeyGrave
	KeyTilde

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyParenRight
	KeyExclaim
	KeyAt
	KeyHash
	KeyDollar
	KeyPercent
	KeyCircum
	KeyAmpersand
	KeyAsterisk
	KeyParenLeft

	KeyMinus
	KeyUnderscore
	KeyEquals
	KeyPlus

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyAShift
	KeyBShift
	KeyCShift
	KeyDShift
	KeyEShift
	KeyFShift
	KeyGShift
	KeyHShift
	KeyIShift
	KeyJShift
	KeyKShift
	KeyLShift
	KeyMShift
	KeyNShift
	KeyOShift
	KeyPShift
	KeyQShift
	KeyRShift
	KeySShift
	KeyTShift
	KeyUShift
	KeyVShift
	KeyWShift
	KeyXShift
	KeyYShift
	KeyZShift

	KeyBracketLeft
	KeyBraceLeft
	KeyBracketRight
	KeyBraceRight
	KeyBackSlash
	KeyBar
	KeySlash
	KeyQuestion
	KeySemicolon
	KeyColon
	KeyComma
	KeyLess
	KeyPeriod
	KeyGreater
	KeyApostrophe
	KeyQuote

	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPEquals
	KeyKPAdd
	KeyKPEnter
	KeyKPDecimal
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9

	keyCount
)

type keyInfo struct {
	physical string
	shifted  bool
	char     rune
}

var keyInfos = func() [keyCount]keyInfo {
	var t [keyCount]keyInfo
	set := func(k KeyCode, physical string, shifted bool, char rune) {
		t[k] = keyInfo{physical: physical, shifted: shifted, char: char}
	}

	set(KeyGrave, "Grave", false, '`')
	set(KeyTilde, "Grave", true, '~')

	digitShift := []struct {
		k KeyCode
		c rune
	}{
		{KeyParenRight, ')'}, {KeyExclaim, '!'}, {KeyAt, '@'}, {KeyHash, '#'}, {KeyDollar, '$'},
		{KeyPercent, '%'}, {KeyCircum, '^'}, {KeyAmpersand, '&'}, {KeyAsterisk, '*'}, {KeyParenLeft, '('},
	}
	for i := 0; i < 10; i++ {
		name := string(rune('0' + i))
		set(Key0+KeyCode(i), name, false, rune('0'+i))
		set(digitShift[i].k, name, true, digitShift[i].c)
	}

	set(KeyMinus, "Minus", false, '-')
	set(KeyUnderscore, "Minus", true, '_')
	set(KeyEquals, "Equals", false, '=')
	set(KeyPlus, "Equals", true, '+')

	for i := 0; i < 26; i++ {
		name := string(rune('A' + i))
		set(KeyA+KeyCode(i), name, false, rune('a'+i))
		set(KeyAShift+KeyCode(i), name, true, rune('A'+i))
	}

	set(KeyBracketLeft, "BracketLeft", false, '[')
	set(KeyBraceLeft, "BracketLeft", true, '{')
	set(KeyBracketRight, "BracketRight", false, ']')
	set(KeyBraceRight, "BracketRight", true, '}')
	set(KeyBackSlash, "BackSlash", false, '\\')
	set(KeyBar, "BackSlash", true, '|')
	set(KeySlash, "Slash", false, '/')
	set(KeyQuestion, "Slash", true, '?')
	set(KeySemicolon, "Semicolon", false, ';')
	set(KeyColon, "Semicolon", true, ':')
	set(KeyComma, "Comma", false, ',')
	set(KeyLess, "Comma", true, '<')
	set(KeyPeriod, "Period", false, '.')
	set(KeyGreater, "Period", true, '>')
	set(KeyApostrophe, "Quote", false, '\'')
	set(KeyQuote, "Quote", true, '"')

	set(KeyKPDivide, "KPDivide", false, '/')
	set(KeyKPMultiply, "KPMultiply", false, '*')
	set(KeyKPSubtract, "KPSubtract", false, '-')
	set(KeyKPEquals, "KPEquals", false, '=')
	set(KeyKPAdd, "KPAdd", false, '+')
	set(KeyKPEnter, "KPEnter", false, '\n')
	set(KeyKPDecimal, "KPDecimal", false, '.')
	for i := 0; i < 10; i++ {
		set(KeyKP0+KeyCode(i), "KP"+string(rune('0'+i)), false, rune('0'+i))
	}
	return t
}()

// Valid reports whether k is a known key code.
func (k KeyCode) Valid() bool {
	return k > KeyNone && k < keyCount
}

// Physical names the physical key, shared by the shifted and unshifted codes.
func (k KeyCode) Physical() string {
	if !k.Valid() {
		return ""
	}
	return keyInfos[k].physical
}

// Shifted reports whether k is the shifted variant of its physical key.
func (k KeyCode) Shifted() bool {
	return k.Valid() && keyInfos[k].shifted
}

// Char returns the US-layout character of k, or 0.
func (k KeyCode) Char() rune {
	if !k.Valid() {
		return 0
	}
	return keyInfos[k].char
}

// IsKeypad reports whether k is on the numeric keypad.
func (k KeyCode) IsKeypad() bool {
	return k >= KeyKPDivide && k <= KeyKP9
}

func (k KeyCode) String() string {
	if !k.Valid() {
		return "KeyNone"
	}
	if keyInfos[k].shifted {
		return keyInfos[k].physical + "+Shift"
	}
	return keyInfos[k].physical
}
