package main

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"openbangla/internal/ime"
	"openbangla/internal/keymap"
)

// specialKeys are terminal keys with a direct IBus key symbol.
var specialKeys = map[tcell.Key]uint32{
	tcell.KeyEnter:      keymap.KeyReturn,
	tcell.KeyBackspace:  keymap.KeyBackSpace,
	tcell.KeyBackspace2: keymap.KeyBackSpace,
	tcell.KeyTab:        keymap.KeyTab,
	tcell.KeyLeft:       keymap.KeyLeft,
	tcell.KeyRight:      keymap.KeyRight,
	tcell.KeyUp:         keymap.KeyUp,
	tcell.KeyDown:       keymap.KeyDown,
	tcell.KeyHome:       keymap.KeyHome,
	tcell.KeyEnd:        keymap.KeyEnd,
	tcell.KeyDelete:     keymap.KeyDelete,
}

// shiftedSymbols are the printable characters a US keyboard types with Shift.
const shiftedSymbols = `~!@#$%^&*()_+{}|:"<>?`

// translateKey converts a terminal key event to an IBus key symbol and
// modifier state. Terminals cannot report key releases or AltGr, so those
// are synthesised by the caller.
func translateKey(ev *tcell.EventKey) (keyval, state uint32, ok bool) {
	mods := ev.Modifiers()
	if mods&tcell.ModShift != 0 {
		state |= ime.IBusShiftMask
	}
	if mods&tcell.ModCtrl != 0 {
		state |= ime.IBusControlMask
	}
	if mods&tcell.ModAlt != 0 {
		state |= ime.IBusMod1Mask
	}

	if sym, found := specialKeys[ev.Key()]; found {
		return sym, state, true
	}

	switch k := ev.Key(); {
	case k == tcell.KeyBacktab:
		return keymap.KeyTab, state | ime.IBusShiftMask, true

	case k == tcell.KeyCtrlW:
		// word delete, as in a shell
		return keymap.KeyBackSpace, state | ime.IBusControlMask, true

	case k == tcell.KeyRune:
		r := ev.Rune()
		if r < 0x20 || r > 0x7e {
			return 0, 0, false
		}
		if (r >= 'A' && r <= 'Z') || strings.ContainsRune(shiftedSymbols, r) {
			state |= ime.IBusShiftMask
		}
		return uint32(r), state, true

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return uint32('a' + rune(k-tcell.KeyCtrlA)), state | ime.IBusControlMask, true
	}
	return 0, 0, false
}
