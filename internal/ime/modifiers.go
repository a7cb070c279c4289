package ime

import "fmt"

// IBus key event state masks, from ibustypes.h.
const (
	IBusShiftMask   uint32 = 1 << 0
	IBusLockMask    uint32 = 1 << 1
	IBusControlMask uint32 = 1 << 2
	IBusMod1Mask    uint32 = 1 << 3 // Alt
	IBusMod2Mask    uint32 = 1 << 4
	IBusMod3Mask    uint32 = 1 << 5
	IBusMod4Mask    uint32 = 1 << 6 // Super/Meta
	IBusMod5Mask    uint32 = 1 << 7 // AltGr on most layouts
	IBusHandledMask uint32 = 1 << 24
	IBusForwardMask uint32 = 1 << 25
	IBusSuperMask   uint32 = 1 << 26
	IBusHyperMask   uint32 = 1 << 27
	IBusMetaMask    uint32 = 1 << 28
	IBusReleaseMask uint32 = 1 << 30

	// IBusModifierMask is every bit IBus may set in a key event state.
	IBusModifierMask uint32 = 0x5f001fff
)

// Modifiers is the modifier snapshot of one key event.
type Modifiers uint32

// ParseModifiers validates a raw IBus state. Bits outside IBusModifierMask
// mean the host speaks a protocol we do not understand, which is fatal.
func ParseModifiers(state uint32) Modifiers {
	if state&^IBusModifierMask != 0 {
		panic(fmt.Sprintf("ime: invalid key event state 0x%08x", state))
	}
	return Modifiers(state)
}

func (m Modifiers) Has(mask uint32) bool { return uint32(m)&mask != 0 }

func (m Modifiers) Shift() bool   { return m.Has(IBusShiftMask) }
func (m Modifiers) Control() bool { return m.Has(IBusControlMask) }
func (m Modifiers) Alt() bool     { return m.Has(IBusMod1Mask) }
func (m Modifiers) Release() bool { return m.Has(IBusReleaseMask) }

func (m Modifiers) String() string {
	s := ""
	add := func(on bool, name string) {
		if !on {
			return
		}
		if s != "" {
			s += "+"
		}
		s += name
	}
	add(m.Shift(), "Shift")
	add(m.Control(), "Control")
	add(m.Alt(), "Alt")
	add(m.Has(IBusMod5Mask), "Mod5")
	add(m.Release(), "Release")
	if s == "" {
		return "none"
	}
	return s
}
