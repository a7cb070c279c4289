package ime

import (
	"log/slog"
	"sync"
	"unicode/utf8"

	"openbangla/internal/engine"
	"openbangla/internal/metrics"
)

// Options configures a State.
type Options struct {
	// PageSize is the number of candidates per lookup table page.
	PageSize int

	// DatabaseDir is passed through to the engine configuration.
	DatabaseDir string

	Logger *slog.Logger

	// Metrics receives dispatcher counters. Nil keeps them private.
	Metrics *metrics.IME
}

// State is the input-method session shared by every engine object the
// host creates. All entry points lock it for the full event.
type State struct {
	mu sync.Mutex

	engine   engine.Engine
	settings Settings
	dbDir    string
	logger   *slog.Logger
	metrics  *metrics.IME

	// last is non-nil only while a session is conceptually active.
	last  *SuggestionView
	table *LookupTable

	// altGr latches while Alt_R or ISO_Level3_Shift is held.
	altGr bool
}

// NewState creates the session state and pushes the initial configuration
// into eng.
func NewState(eng engine.Engine, settings Settings, opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewIME(nil)
	}
	s := &State{
		engine:   eng,
		settings: settings,
		dbDir:    opts.DatabaseDir,
		logger:   logger,
		metrics:  m,
		table:    NewLookupTable(opts.PageSize, CandidateOrientation(settings)),
	}
	s.syncConfig()
	return s
}

// SessionActive reports whether the engine is composing.
func (s *State) SessionActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SessionActive()
}

// Orientation is the candidate window orientation in effect.
func (s *State) Orientation() Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Orientation()
}

// syncConfig recomputes the engine configuration from the settings and
// pushes it into the engine.
func (s *State) syncConfig() {
	s.table.SetOrientation(CandidateOrientation(s.settings))
	s.engine.ApplyConfig(EngineConfig(s.settings, s.dbDir))
	s.metrics.ConfigSyncs.Inc()
}

// setSuggestion stores sug as the current view and redraws from it.
func (s *State) setSuggestion(d Display, sug engine.Suggestion) {
	s.last = NewSuggestionView(sug)
	s.updateLookupTable(d)
}

func (s *State) updateLookupTable(d Display) {
	if s.last == nil {
		return
	}
	if s.last.IsLonely() {
		// A lonely view replacing a list must not leave the old list on screen.
		if s.table.Len() > 0 {
			s.table.Clear()
			d.HideAuxiliaryText()
			d.HideLookupTable()
		}
	} else {
		s.table.Clear()
		d.UpdateAuxiliaryText(s.last.AuxiliaryText(), true)
		for _, c := range s.last.Candidates() {
			s.table.Append(c)
		}
		s.table.SetCursor(s.last.PreviouslySelectedIndex())
	}
	s.updatePreedit(d)
}

func (s *State) updatePreedit(d Display) {
	if s.last == nil {
		return
	}
	index := 0
	if !s.last.IsLonely() {
		d.UpdateLookupTable(lookupPage(s.table), true)
		index = s.table.Cursor()
	}
	text := s.last.PreeditText(index)
	d.UpdatePreedit(text, toUint32(utf8.RuneCountInString(text)), true, PreeditCommit)
}

// commit emits the selected text, resets the display and tells the engine
// which candidate was accepted. It does nothing without a current view.
func (s *State) commit(d Display) {
	if s.last == nil {
		return
	}
	var (
		index int
		text  string
	)
	if s.last.IsLonely() {
		text = s.last.LonelyText()
	} else {
		index = s.table.Cursor()
		text = s.last.PreeditText(index)
	}
	s.commitText(d, text, index)
}

func (s *State) commitText(d Display, text string, index int) {
	d.CommitText(text)
	s.metrics.Commits.Inc()
	s.reset(d)
	s.engine.CandidateAccepted(index)
	s.logger.Debug("candidate committed", "index", index)
}

// reset clears the candidate list and hides every display surface.
func (s *State) reset(d Display) {
	s.table.Clear()
	s.last = nil
	s.metrics.Composing.Set(0)
	d.HidePreedit()
	d.HideAuxiliaryText()
	d.HideLookupTable()
}
