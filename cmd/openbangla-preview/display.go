package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"openbangla/internal/ime"
	"openbangla/internal/keymap"
)

const maxLines = 8

// screenDisplay is an ime.Display that also plays the application: it
// keeps the committed text and applies keys the input method passes on.
type screenDisplay struct {
	lines []string

	preedit        string
	preeditVisible bool
	aux            string
	auxVisible     bool
	page           ime.LookupPage
	tableVisible   bool
}

func newScreenDisplay() *screenDisplay {
	return &screenDisplay{lines: []string{""}}
}

func (d *screenDisplay) CommitText(text string) {
	d.insert(text)
}

func (d *screenDisplay) UpdatePreedit(text string, _ uint32, visible bool, _ ime.PreeditFocusMode) {
	d.preedit, d.preeditVisible = text, visible
}

func (d *screenDisplay) UpdateAuxiliaryText(text string, visible bool) {
	d.aux, d.auxVisible = text, visible
}

func (d *screenDisplay) UpdateLookupTable(page ime.LookupPage, visible bool) {
	d.page, d.tableVisible = page, visible
}

func (d *screenDisplay) HidePreedit()       { d.preeditVisible = false }
func (d *screenDisplay) HideAuxiliaryText() { d.auxVisible = false }
func (d *screenDisplay) HideLookupTable()   { d.tableVisible = false }

func (d *screenDisplay) insert(text string) {
	d.lines[len(d.lines)-1] += text
}

// passThrough does what a text field would do with a key the input
// method did not consume.
func (d *screenDisplay) passThrough(keyval, state uint32) {
	if state&(ime.IBusControlMask|ime.IBusMod1Mask) != 0 {
		return
	}
	switch {
	case keyval == keymap.KeyReturn:
		d.lines = append(d.lines, "")
		if len(d.lines) > maxLines {
			d.lines = d.lines[len(d.lines)-maxLines:]
		}
	case keyval == keymap.KeyBackSpace:
		last := []rune(d.lines[len(d.lines)-1])
		if len(last) > 0 {
			d.lines[len(d.lines)-1] = string(last[:len(last)-1])
		}
	case keyval >= keymap.KeySpace && keyval <= keymap.KeyAsciiTilde:
		d.insert(string(rune(keyval)))
	}
}

var (
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleHint    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePreedit = tcell.StyleDefault.Underline(true).Foreground(tcell.ColorYellow)
	styleAux     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleCursor  = tcell.StyleDefault.Reverse(true)
)

func (d *screenDisplay) draw(s tcell.Screen, header, status string, orientation ime.Orientation) {
	s.Clear()
	drawText(s, 0, 0, header, styleTitle)
	drawText(s, 0, 1, "F2 orientation  F3 AltGr  PgUp/PgDn page  Ctrl+W delete word  Esc quit", styleHint)

	y := 3
	for i, line := range d.lines {
		x := drawText(s, 0, y, "> "+line, tcell.StyleDefault)
		if i == len(d.lines)-1 {
			if d.preeditVisible {
				x = drawText(s, x, y, d.preedit, stylePreedit)
			}
			s.ShowCursor(x, y)
		}
		y++
	}

	y++
	if d.auxVisible {
		drawText(s, 2, y, d.aux, styleAux)
	}
	y++
	if d.tableVisible {
		d.drawTable(s, 2, y, orientation)
	}

	_, h := s.Size()
	drawText(s, 0, h-1, status, styleHint)
	s.Show()
}

func (d *screenDisplay) drawTable(s tcell.Screen, x, y int, orientation ime.Orientation) {
	for i, c := range d.page.Candidates {
		style := tcell.StyleDefault
		if uint32(i) == d.page.Cursor {
			style = styleCursor
		}
		label := fmt.Sprintf("%d.%s", (i+1)%10, c)
		if orientation == ime.OrientationVertical {
			drawText(s, x, y+i, label, style)
			continue
		}
		x = drawText(s, x, y, label, style) + 2
	}
}

// drawText writes text starting at (x, y) and returns the column after
// it. Combining marks and joiners share the cell of the preceding rune.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	var (
		base rune
		comb []rune
	)
	flush := func() {
		if base == 0 {
			return
		}
		s.SetContent(x, y, base, comb, style)
		x++
		base, comb = 0, nil
	}
	for _, r := range text {
		if base != 0 && combining(r) {
			comb = append(comb, r)
			continue
		}
		flush()
		base = r
	}
	flush()
	return x
}

func combining(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Mc) || r == '\u200c' || r == '\u200d'
}

func describe(keyval, state uint32, consumed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "keyval 0x%04x state %s", keyval, ime.Modifiers(state))
	if consumed {
		b.WriteString(" consumed")
	} else {
		b.WriteString(" passed through")
	}
	return b.String()
}
