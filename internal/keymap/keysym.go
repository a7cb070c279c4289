package keymap

// IBus key symbols, from ibuskeysyms.h (same values as X11 keysymdef.h).
const (
	KeySpace        = 0x0020
	KeyExclam       = 0x0021
	KeyQuoteDbl     = 0x0022
	KeyNumberSign   = 0x0023
	KeyDollar       = 0x0024
	KeyPercent      = 0x0025
	KeyAmpersand    = 0x0026
	KeyApostrophe   = 0x0027
	KeyParenLeft    = 0x0028
	KeyParenRight   = 0x0029
	KeyAsterisk     = 0x002a
	KeyPlus         = 0x002b
	KeyComma        = 0x002c
	KeyMinus        = 0x002d
	KeyPeriod       = 0x002e
	KeySlash        = 0x002f
	Key0            = 0x0030
	Key9            = 0x0039
	KeyColon        = 0x003a
	KeySemicolon    = 0x003b
	KeyLess         = 0x003c
	KeyEqual        = 0x003d
	KeyGreater      = 0x003e
	KeyQuestion     = 0x003f
	KeyAt           = 0x0040
	KeyUpperA       = 0x0041
	KeyUpperZ       = 0x005a
	KeyBracketLeft  = 0x005b
	KeyBackslash    = 0x005c
	KeyBracketRight = 0x005d
	KeyAsciiCircum  = 0x005e
	KeyUnderscore   = 0x005f
	KeyGrave        = 0x0060
	KeyLowerA       = 0x0061
	KeyLowerZ       = 0x007a
	KeyBraceLeft    = 0x007b
	KeyBar          = 0x007c
	KeyBraceRight   = 0x007d
	KeyAsciiTilde   = 0x007e

	KeyISOLevel3Shift = 0xfe03
	KeyDeadGrave      = 0xfe50

	KeyBackSpace = 0xff08
	KeyTab       = 0xff09
	KeyReturn    = 0xff0d
	KeyEscape    = 0xff1b
	KeyHome      = 0xff50
	KeyLeft      = 0xff51
	KeyUp        = 0xff52
	KeyRight     = 0xff53
	KeyDown      = 0xff54
	KeyPageUp    = 0xff55
	KeyPageDown  = 0xff56
	KeyEnd       = 0xff57

	KeyKPEnter    = 0xff8d
	KeyKPMultiply = 0xffaa
	KeyKPAdd      = 0xffab
	KeyKPSubtract = 0xffad
	KeyKPDecimal  = 0xffae
	KeyKPDivide   = 0xffaf
	KeyKP0        = 0xffb0
	KeyKP9        = 0xffb9
	KeyKPEqual    = 0xffbd

	KeyShiftL   = 0xffe1
	KeyShiftR   = 0xffe2
	KeyControlL = 0xffe3
	KeyControlR = 0xffe4
	KeyMetaL    = 0xffe7
	KeyMetaR    = 0xffe8
	KeyAltL     = 0xffe9
	KeyAltR     = 0xffea

	KeyDelete = 0xffff
)

// IsModifier reports whether keyval is a pure modifier key the dispatcher
// tracks (Shift, Control, either Alt, either Meta, ISO_Level3_Shift).
func IsModifier(keyval uint32) bool {
	switch keyval {
	case KeyShiftL, KeyShiftR, KeyControlL, KeyControlR,
		KeyAltL, KeyAltR, KeyMetaL, KeyMetaR, KeyISOLevel3Shift:
		return true
	}
	return false
}

// IsAltGr reports whether keyval is the secondary Alt / level-3 shift key.
func IsAltGr(keyval uint32) bool {
	return keyval == KeyAltR || keyval == KeyISOLevel3Shift
}
