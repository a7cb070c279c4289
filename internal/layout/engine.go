package layout

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"openbangla/internal/engine"
)

// maxHistorySuggestions bounds the history words added after the composed
// text.
const maxHistorySuggestions = 8

// History is the selection history the engine ranks candidates with.
type History interface {
	Record(input, word string) error
	Suggest(prefix string, limit int) ([]string, error)
	Preferred(input string) (string, bool, error)
}

// Engine is a fixed-layout engine.Engine. Each key maps to a fixed piece
// of text; with suggestions enabled the composed word is offered together
// with matching history words and the typed ASCII.
type Engine struct {
	logger  *slog.Logger
	history History

	cfg        engine.Config
	layout     *Layout
	layoutPath string

	units  []string
	raw    []rune
	active bool
	last   *suggestion
}

var _ engine.Engine = (*Engine)(nil)

// NewEngine returns an engine on the builtin layout. history may be nil.
func NewEngine(history History, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:  logger,
		history: history,
		layout:  Builtin(),
	}
}

// Layout returns the layout in use.
func (e *Engine) Layout() *Layout {
	return e.layout
}

// ApplyConfig implements engine.Engine. A changed layout path is loaded
// immediately; a layout that cannot be used leaves the builtin active.
func (e *Engine) ApplyConfig(cfg engine.Config) {
	e.cfg = cfg
	if cfg.LayoutPath == e.layoutPath && e.layout != nil {
		return
	}
	e.layoutPath = cfg.LayoutPath

	if cfg.LayoutPath == "" {
		e.layout = Builtin()
		return
	}
	l, err := LoadFile(cfg.LayoutPath)
	if err != nil {
		e.logger.Warn("layout not loaded, using builtin", "path", cfg.LayoutPath, "error", err)
		e.layout = Builtin()
		return
	}
	e.logger.Info("layout loaded", "name", l.Info.Name, "path", cfg.LayoutPath)
	e.layout = l
}

// SessionActive implements engine.Engine.
func (e *Engine) SessionActive() bool {
	return e.active
}

// EndSession implements engine.Engine.
func (e *Engine) EndSession() {
	e.units = e.units[:0]
	e.raw = e.raw[:0]
	e.active = false
	e.last = nil
}

// KeyEvent implements engine.Engine.
func (e *Engine) KeyEvent(key engine.KeyCode, mod engine.Modifier) engine.Suggestion {
	text, ok := e.translate(key, mod)
	if !ok {
		if !e.active {
			return emptySuggestion
		}
		// unmapped keys are ignored mid-word
		return e.last
	}

	e.units = append(e.units, text)
	e.raw = append(e.raw, key.Char())
	e.active = true
	return e.suggest()
}

func (e *Engine) translate(key engine.KeyCode, mod engine.Modifier) (string, bool) {
	if key.IsKeypad() && !e.cfg.FixedNumpad {
		return "", false
	}
	altGr := mod.Has(engine.ModifierAltGr)
	if text, ok := e.layout.Lookup(key, altGr); ok {
		if e.cfg.FixedAutomaticVowel {
			text = e.autoVowel(text)
		}
		return text, true
	}
	if e.cfg.SmartQuote && !altGr {
		opening := len(e.units) == 0
		switch key {
		case engine.KeyApostrophe:
			if opening {
				return "‘", true
			}
			return "’", true
		case engine.KeyQuote:
			if opening {
				return "“", true
			}
			return "”", true
		}
	}
	return "", false
}

var karToVowel = map[string]string{
	"া": "আ",
	"ি": "ই",
	"ী": "ঈ",
	"ু": "উ",
	"ূ": "ঊ",
	"ৃ": "ঋ",
	"ে": "এ",
	"ৈ": "ঐ",
	"ো": "ও",
	"ৌ": "ঔ",
}

// autoVowel turns a vowel sign that has no consonant to attach to into the
// independent vowel.
func (e *Engine) autoVowel(text string) string {
	vowel, ok := karToVowel[text]
	if !ok {
		return text
	}
	if n := len(e.units); n > 0 {
		prev, _ := utf8.DecodeLastRuneInString(e.units[n-1])
		if isConsonant(prev) {
			return text
		}
	}
	return vowel
}

func isConsonant(r rune) bool {
	// ka..ha, rra..yya, khanda ta
	return (r >= 0x0995 && r <= 0x09B9) || (r >= 0x09DC && r <= 0x09DF) || r == 0x09CE
}

// Backspace implements engine.Engine.
func (e *Engine) Backspace(wordMode bool) engine.Suggestion {
	if !e.active {
		return emptySuggestion
	}
	if wordMode {
		e.units = e.units[:0]
		e.raw = e.raw[:0]
	} else if n := len(e.units); n > 0 {
		e.units = e.units[:n-1]
		e.raw = e.raw[:n-1]
	}
	if len(e.units) == 0 {
		e.EndSession()
		return emptySuggestion
	}
	return e.suggest()
}

// CandidateAccepted implements engine.Engine.
func (e *Engine) CandidateAccepted(index int) {
	if e.last != nil && e.history != nil {
		if word := e.last.candidate(index); word != "" {
			if err := e.history.Record(string(e.raw), word); err != nil {
				e.logger.Warn("record selection failed", "error", err)
			}
		}
	}
	e.EndSession()
}

func (e *Engine) suggest() *suggestion {
	composed := strings.Join(e.units, "")
	input := string(e.raw)

	if !e.cfg.FixedSuggestion {
		e.last = &suggestion{lonely: true, text: composed}
		return e.last
	}

	candidates := []string{composed}
	if e.history != nil {
		words, err := e.history.Suggest(composed, maxHistorySuggestions)
		if err != nil {
			e.logger.Warn("history lookup failed", "error", err)
		}
		candidates = append(candidates, words...)
	}
	if e.cfg.SuggestionIncludeEnglish {
		candidates = append(candidates, input)
	}
	candidates = dedupe(candidates)

	if len(candidates) == 1 {
		e.last = &suggestion{lonely: true, text: composed}
		return e.last
	}

	prev := 0
	if e.history != nil {
		if word, ok, err := e.history.Preferred(input); err == nil && ok {
			for i, c := range candidates {
				if c == word {
					prev = i
					break
				}
			}
		}
	}

	e.last = &suggestion{
		aux:        input,
		candidates: candidates,
		prev:       prev,
	}
	return e.last
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// suggestion implements engine.Suggestion.
type suggestion struct {
	empty      bool
	lonely     bool
	text       string
	aux        string
	candidates []string
	prev       int
}

var emptySuggestion = &suggestion{empty: true}

func (s *suggestion) IsEmpty() bool                { return s.empty }
func (s *suggestion) IsLonely() bool               { return s.lonely }
func (s *suggestion) AuxiliaryText() string        { return s.aux }
func (s *suggestion) Candidates() []string         { return s.candidates }
func (s *suggestion) PreviouslySelectedIndex() int { return s.prev }
func (s *suggestion) LonelyText() string           { return s.text }

func (s *suggestion) PreeditText(index int) string {
	return s.candidate(index)
}

func (s *suggestion) candidate(index int) string {
	if s.lonely {
		return s.text
	}
	if index < 0 || index >= len(s.candidates) {
		return ""
	}
	return s.candidates[index]
}
