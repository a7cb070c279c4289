package ime

import (
	"time"

	"openbangla/internal/engine"
	"openbangla/internal/keymap"
)

// ProcessKeyEvent handles one key event from the host and reports whether
// it was consumed. Unconsumed keys fall back to the host's own handling.
//
// A state with bits outside IBusModifierMask panics.
func (s *State) ProcessKeyEvent(d Display, keyval, keycode, state uint32) bool {
	mods := ParseModifiers(state)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("key event", "keyval", keyval, "keycode", keycode, "mods", mods.String())

	if mods.Release() {
		if keymap.IsAltGr(keyval) {
			s.altGr = false
		}
		return false
	}

	start := time.Now()
	wasActive := s.engine.SessionActive()
	consumed := s.dispatch(d, keyval, mods)
	s.record(wasActive, consumed, start)
	return consumed
}

func (s *State) record(wasActive, consumed bool, start time.Time) {
	s.metrics.KeyEvents.Inc()
	if consumed {
		s.metrics.KeysConsumed.Inc()
	}
	active := s.engine.SessionActive()
	if active && !wasActive {
		s.metrics.Sessions.Inc()
	}
	if active {
		s.metrics.Composing.Set(1)
	} else {
		s.metrics.Composing.Set(0)
	}
	s.metrics.EventDuration.Since(start)
}

// dispatch runs the press handling steps in order.
func (s *State) dispatch(d Display, keyval uint32, mods Modifiers) bool {
	if !s.engine.SessionActive() {
		s.syncConfig()
	}

	switch keyval {
	case keymap.KeyBackSpace:
		return s.backspace(d, mods.Control())

	case keymap.KeyReturn, keymap.KeyKPEnter:
		if !s.engine.SessionActive() {
			return false
		}
		s.commit(d)
		return true

	case keymap.KeySpace:
		if s.engine.SessionActive() {
			s.commit(d)
		}
		return false

	case keymap.KeyLeft, keymap.KeyRight, keymap.KeyUp, keymap.KeyDown, keymap.KeyTab:
		if !s.engine.SessionActive() {
			return false
		}
		if s.navigate(d, keyval) {
			return true
		}
	}

	if keymap.IsModifier(keyval) {
		if keymap.IsAltGr(keyval) {
			s.altGr = true
		}
		return s.engine.SessionActive()
	}
	return s.forward(d, keyval, mods)
}

func (s *State) backspace(d Display, wordMode bool) bool {
	if !s.engine.SessionActive() {
		return false
	}
	s.metrics.Backspaces.Inc()
	sug := s.engine.Backspace(wordMode)
	if sug.IsEmpty() {
		s.reset(d)
	} else {
		s.setSuggestion(d, sug)
	}
	return true
}

// navigate moves the candidate cursor for an arrow or Tab key. A lonely
// suggestion has no list, so the key commits it instead. It reports
// whether the key was used for navigation.
func (s *State) navigate(d Display, keyval uint32) bool {
	if s.last == nil || s.last.IsLonely() {
		s.commit(d)
		return false
	}

	horizontal := s.table.Orientation() == OrientationHorizontal
	var down, up bool
	switch keyval {
	case keymap.KeyTab:
		down = true
	case keymap.KeyRight:
		down = horizontal
	case keymap.KeyLeft:
		up = horizontal
	case keymap.KeyDown:
		down = !horizontal
	case keymap.KeyUp:
		up = !horizontal
	}

	switch {
	case down:
		s.table.CursorDown()
	case up:
		s.table.CursorUp()
	default:
		return false
	}
	s.updatePreedit(d)
	return true
}

// forward translates a key and submits it to the engine.
func (s *State) forward(d Display, keyval uint32, mods Modifiers) bool {
	var mod engine.Modifier
	if mods.Shift() {
		mod |= engine.ModifierShift
	}
	ctrl, alt := mods.Control(), mods.Alt()

	code, ok := keymap.Translate(keyval)
	if (ctrl && !alt) || (alt && !ctrl && !s.altGr) || !ok {
		if s.engine.SessionActive() {
			s.commit(d)
		}
		return false
	}
	if (ctrl && alt) || s.altGr {
		mod |= engine.ModifierAltGr
	}

	sug := s.engine.KeyEvent(code, mod)
	if sug.IsEmpty() {
		// An empty suggestion is indistinguishable from a declined key under
		// old kar order typing, so the engine's session state decides.
		return s.engine.SessionActive()
	}
	s.setSuggestion(d, sug)
	return true
}

// Enable pushes the current settings into the engine.
func (s *State) Enable(d Display) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("engine enabled")
	s.syncConfig()
}

func (s *State) Disable(d Display) {
	s.logger.Info("engine disabled")
}

func (s *State) FocusIn(d Display) {
	s.logger.Debug("focus in")
}

// FocusOut abandons an active session.
func (s *State) FocusOut(d Display) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("focus out")
	s.endSession(d)
}

// Reset abandons an active session.
func (s *State) Reset(d Display) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("engine reset")
	s.endSession(d)
}

func (s *State) endSession(d Display) {
	if !s.engine.SessionActive() {
		return
	}
	s.engine.EndSession()
	s.reset(d)
}

// CandidateClicked commits the candidate at a page-relative index.
func (s *State) CandidateClicked(d Display, index, button, state uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("candidate clicked", "index", index, "button", button, "state", state)

	abs := s.table.PageStart() + int(index)
	text, ok := s.table.Candidate(abs)
	if !ok {
		return
	}
	s.commitText(d, text, abs)
}

// CursorUp and the other panel navigation entry points move the selection
// in the candidate window.
func (s *State) CursorUp(d Display)   { s.move(d, (*LookupTable).CursorUp) }
func (s *State) CursorDown(d Display) { s.move(d, (*LookupTable).CursorDown) }
func (s *State) PageUp(d Display)     { s.move(d, (*LookupTable).PageUp) }
func (s *State) PageDown(d Display)   { s.move(d, (*LookupTable).PageDown) }

func (s *State) move(d Display, step func(*LookupTable) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || s.last.IsLonely() || !s.engine.SessionActive() {
		return
	}
	if step(s.table) {
		s.updatePreedit(d)
	}
}

// SettingsChanged applies new settings when no session is active. A
// composing session picks them up on its next cold start.
func (s *State) SettingsChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.SessionActive() {
		return
	}
	s.logger.Info("settings changed, reconfiguring engine")
	s.syncConfig()
}

// Shutdown abandons an active session once the host is gone. Nothing is
// drawn because there is no display left to draw on.
func (s *State) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.SessionActive() {
		s.engine.EndSession()
	}
	s.table.Clear()
	s.last = nil
	s.metrics.Composing.Set(0)
}
