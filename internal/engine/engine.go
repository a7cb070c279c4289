// Package engine defines the boundary between the input-method core and a
// transliteration/suggestion engine.
//
// The core never looks inside an engine. It feeds normalized key codes in,
// reads Suggestion values back and tells the engine which candidate the user
// accepted. Engine configuration is a plain record that the core derives from
// the user's preferences and pushes in whenever a session starts cold.
package engine

// Modifier is the modifier byte passed along with a key code.
type Modifier uint8

const (
	// ModifierShift marks a key typed with Shift held.
	ModifierShift Modifier = 1 << 0
	// ModifierAltGr marks a key typed with AltGr (or Control+Alt) held.
	ModifierAltGr Modifier = 1 << 1
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

// Engine is a transliteration engine driven one key at a time.
//
// Implementations are not required to be safe for concurrent use; the core
// serializes every call behind its own lock.
type Engine interface {
	// SessionActive reports whether keystrokes are being accumulated toward
	// uncommitted text.
	SessionActive() bool

	// EndSession abandons the current session without committing anything.
	EndSession()

	// KeyEvent feeds one key to the engine. An empty Suggestion means the
	// engine declined the key.
	KeyEvent(key KeyCode, mod Modifier) Suggestion

	// Backspace deletes one character, or one word when wordMode is set.
	// An empty Suggestion means the session ended.
	Backspace(wordMode bool) Suggestion

	// CandidateAccepted records that the candidate at index was committed and
	// ends the session.
	CandidateAccepted(index int)

	// ApplyConfig replaces the engine configuration.
	ApplyConfig(cfg Config)
}

// Suggestion is one engine response.
type Suggestion interface {
	IsEmpty() bool

	// IsLonely reports whether the suggestion has a single decided
	// representation and no navigable list.
	IsLonely() bool

	AuxiliaryText() string
	Candidates() []string
	PreviouslySelectedIndex() int

	// PreeditText returns the inline text to show when the candidate at
	// index is selected.
	PreeditText(index int) string

	// LonelyText returns the text of a lonely suggestion.
	LonelyText() string
}

// Config is the engine configuration record.
type Config struct {
	DatabaseDir string
	LayoutPath  string

	PhoneticSuggestion       bool
	SuggestionIncludeEnglish bool

	FixedSuggestion       bool
	FixedAutomaticVowel   bool
	FixedAutomaticChandra bool
	FixedTraditionalKar   bool
	FixedOldKarOrder      bool
	FixedOldReph          bool
	FixedNumpad           bool

	ANSIEncoding bool
	SmartQuote   bool
}
