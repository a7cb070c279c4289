// Package keymap translates IBus key symbols into the engine's key codes.
package keymap

import "openbangla/internal/engine"

var keys = func() map[uint32]engine.KeyCode {
	k := map[uint32]engine.KeyCode{
		// Alphanumeric zone
		KeyGrave:      engine.KeyGrave,
		KeyDeadGrave:  engine.KeyGrave,
		KeyAsciiTilde: engine.KeyTilde,

		KeyParenRight:  engine.KeyParenRight,
		KeyExclam:      engine.KeyExclaim,
		KeyAt:          engine.KeyAt,
		KeyNumberSign:  engine.KeyHash,
		KeyDollar:      engine.KeyDollar,
		KeyPercent:     engine.KeyPercent,
		KeyAsciiCircum: engine.KeyCircum,
		KeyAmpersand:   engine.KeyAmpersand,
		KeyAsterisk:    engine.KeyAsterisk,
		KeyParenLeft:   engine.KeyParenLeft,

		KeyMinus:      engine.KeyMinus,
		KeyUnderscore: engine.KeyUnderscore,
		KeyEqual:      engine.KeyEquals,
		KeyPlus:       engine.KeyPlus,

		KeyBracketLeft:  engine.KeyBracketLeft,
		KeyBraceLeft:    engine.KeyBraceLeft,
		KeyBracketRight: engine.KeyBracketRight,
		KeyBraceRight:   engine.KeyBraceRight,
		KeyBackslash:    engine.KeyBackSlash,
		KeyBar:          engine.KeyBar,
		KeySlash:        engine.KeySlash,
		KeyQuestion:     engine.KeyQuestion,
		KeySemicolon:    engine.KeySemicolon,
		KeyColon:        engine.KeyColon,
		KeyComma:        engine.KeyComma,
		KeyLess:         engine.KeyLess,
		KeyPeriod:       engine.KeyPeriod,
		KeyGreater:      engine.KeyGreater,
		KeyApostrophe:   engine.KeyApostrophe,
		KeyQuoteDbl:     engine.KeyQuote,

		// Numeric zone
		KeyKPDivide:   engine.KeyKPDivide,
		KeyKPMultiply: engine.KeyKPMultiply,
		KeyKPSubtract: engine.KeyKPSubtract,
		KeyKPEqual:    engine.KeyKPEquals,
		KeyKPAdd:      engine.KeyKPAdd,
		KeyKPEnter:    engine.KeyKPEnter,
		KeyKPDecimal:  engine.KeyKPDecimal,
	}

	for i := uint32(0); i <= Key9-Key0; i++ {
		k[Key0+i] = engine.Key0 + engine.KeyCode(i)
		k[KeyKP0+i] = engine.KeyKP0 + engine.KeyCode(i)
	}
	for i := uint32(0); i <= KeyLowerZ-KeyLowerA; i++ {
		k[KeyLowerA+i] = engine.KeyA + engine.KeyCode(i)
		k[KeyUpperA+i] = engine.KeyAShift + engine.KeyCode(i)
	}
	return k
}()

// Translate maps an IBus key symbol to an engine key code. The second result
// is false for keys the engine cannot handle.
func Translate(keyval uint32) (engine.KeyCode, bool) {
	code, ok := keys[keyval]
	return code, ok
}
