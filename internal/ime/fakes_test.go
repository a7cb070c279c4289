package ime

import (
	"fmt"

	"openbangla/internal/engine"
)

type fakeSuggestion struct {
	empty      bool
	lonely     bool
	text       string
	aux        string
	candidates []string
	prev       int
}

func (s fakeSuggestion) IsEmpty() bool                { return s.empty }
func (s fakeSuggestion) IsLonely() bool               { return s.lonely }
func (s fakeSuggestion) AuxiliaryText() string        { return s.aux }
func (s fakeSuggestion) Candidates() []string         { return s.candidates }
func (s fakeSuggestion) PreviouslySelectedIndex() int { return s.prev }
func (s fakeSuggestion) LonelyText() string           { return s.text }

func (s fakeSuggestion) PreeditText(index int) string {
	if s.lonely {
		return s.text
	}
	return s.candidates[index]
}

func listSuggestion(aux string, candidates ...string) fakeSuggestion {
	return fakeSuggestion{aux: aux, candidates: candidates}
}

func lonelySuggestion(text string) fakeSuggestion {
	return fakeSuggestion{lonely: true, text: text, candidates: []string{text}}
}

var emptySuggestion = fakeSuggestion{empty: true}

type keyCall struct {
	code engine.KeyCode
	mod  engine.Modifier
}

// fakeEngine starts a session on the first non-empty suggestion and ends it
// on acceptance, an explicit end, or an empty backspace result.
type fakeEngine struct {
	active bool

	keys       []keyCall
	backspaces []bool
	accepted   []int
	configs    []engine.Config
	ended      int

	onKey       func(engine.KeyCode, engine.Modifier) engine.Suggestion
	onBackspace func(wordMode bool) engine.Suggestion
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		onKey: func(engine.KeyCode, engine.Modifier) engine.Suggestion {
			return listSuggestion("a", "আ", "া", "a")
		},
		onBackspace: func(bool) engine.Suggestion { return emptySuggestion },
	}
}

func (e *fakeEngine) SessionActive() bool { return e.active }

func (e *fakeEngine) EndSession() {
	e.ended++
	e.active = false
}

func (e *fakeEngine) KeyEvent(code engine.KeyCode, mod engine.Modifier) engine.Suggestion {
	e.keys = append(e.keys, keyCall{code, mod})
	s := e.onKey(code, mod)
	if !s.IsEmpty() {
		e.active = true
	}
	return s
}

func (e *fakeEngine) Backspace(wordMode bool) engine.Suggestion {
	e.backspaces = append(e.backspaces, wordMode)
	s := e.onBackspace(wordMode)
	if s.IsEmpty() {
		e.active = false
	}
	return s
}

func (e *fakeEngine) CandidateAccepted(index int) {
	e.accepted = append(e.accepted, index)
	e.active = false
}

func (e *fakeEngine) ApplyConfig(cfg engine.Config) {
	e.configs = append(e.configs, cfg)
}

// recordingDisplay keeps the visible host state and a log of every call.
type recordingDisplay struct {
	calls     []string
	committed []string

	preedit        string
	preeditCursor  uint32
	preeditVisible bool
	preeditMode    PreeditFocusMode
	aux            string
	auxVisible     bool
	page           LookupPage
	tableVisible   bool
}

func (d *recordingDisplay) CommitText(text string) {
	d.calls = append(d.calls, "commit:"+text)
	d.committed = append(d.committed, text)
}

func (d *recordingDisplay) UpdatePreedit(text string, cursor uint32, visible bool, mode PreeditFocusMode) {
	d.calls = append(d.calls, "preedit:"+text)
	d.preedit, d.preeditCursor, d.preeditVisible, d.preeditMode = text, cursor, visible, mode
}

func (d *recordingDisplay) UpdateAuxiliaryText(text string, visible bool) {
	d.calls = append(d.calls, "aux:"+text)
	d.aux, d.auxVisible = text, visible
}

func (d *recordingDisplay) UpdateLookupTable(page LookupPage, visible bool) {
	d.calls = append(d.calls, fmt.Sprintf("table:%d/%d", page.Cursor, len(page.Candidates)))
	d.page, d.tableVisible = page, visible
}

func (d *recordingDisplay) HidePreedit() {
	d.calls = append(d.calls, "hide-preedit")
	d.preeditVisible = false
}

func (d *recordingDisplay) HideAuxiliaryText() {
	d.calls = append(d.calls, "hide-aux")
	d.auxVisible = false
}

func (d *recordingDisplay) HideLookupTable() {
	d.calls = append(d.calls, "hide-table")
	d.tableVisible = false
}

type fakeSettings struct {
	layoutPath string
	horizontal bool
	numpad     bool
	english    bool
}

func defaultFakeSettings() *fakeSettings {
	return &fakeSettings{horizontal: true, numpad: true, english: true}
}

func (s *fakeSettings) LayoutPath() string             { return s.layoutPath }
func (s *fakeSettings) ShowPrevWinFixed() bool         { return true }
func (s *fakeSettings) AutoVowelFormFixed() bool       { return true }
func (s *fakeSettings) AutoChandraPosFixed() bool      { return true }
func (s *fakeSettings) TraditionalKarFixed() bool      { return false }
func (s *fakeSettings) FixedOldKarOrder() bool         { return false }
func (s *fakeSettings) OldReph() bool                  { return true }
func (s *fakeSettings) NumberPadFixed() bool           { return s.numpad }
func (s *fakeSettings) ANSIEncoding() bool             { return false }
func (s *fakeSettings) SmartQuoting() bool             { return true }
func (s *fakeSettings) CandidateWinHorizontal() bool   { return s.horizontal }
func (s *fakeSettings) ShowCWPhonetic() bool           { return true }
func (s *fakeSettings) SuggestionIncludeEnglish() bool { return s.english }
