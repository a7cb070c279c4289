// Package settings reads and writes the user's typing preferences.
//
// Preferences are kept in a small file (TOML by default) whose nested tables
// are addressed with slash-joined keys such as
// "settings/FixedLayout/OldReph". Every read goes through to the file when
// it changed on disk, so another process editing preferences is observed
// without restarting.
package settings

// Preference keys.
const (
	KeyLayoutPath               = "layout/path"
	KeyShowPrevWinFixed         = "settings/FixedLayout/ShowPrevWin"
	KeyAutoVowelFormFixed       = "settings/FixedLayout/AutoVowelForm"
	KeyAutoChandraPosFixed      = "settings/FixedLayout/AutoChandraPos"
	KeyTraditionalKarFixed      = "settings/FixedLayout/TraditionalKar"
	KeyFixedOldKarOrder         = "settings/FixedLayout/OldKarOrder"
	KeyOldReph                  = "settings/FixedLayout/OldReph"
	KeyNumberPadFixed           = "settings/FixedLayout/NumberPad"
	KeyANSIEncoding             = "settings/ANSI"
	KeySmartQuoting             = "settings/SmartQuoting"
	KeyCandidateWinHorizontal   = "settings/CandidateWin/Horizontal"
	KeyShowCWPhonetic           = "settings/CandidateWin/Phonetic"
	KeySuggestionIncludeEnglish = "settings/PreviewWin/IncludeEnglish"
)

// LayoutPath is the layout file the engine loads. Empty selects the
// builtin layout.
func (s *Store) LayoutPath() string {
	return s.String(KeyLayoutPath, "")
}

// ShowPrevWinFixed enables the suggestion window for fixed layouts.
func (s *Store) ShowPrevWinFixed() bool {
	return s.Bool(KeyShowPrevWinFixed, true)
}

func (s *Store) AutoVowelFormFixed() bool {
	return s.Bool(KeyAutoVowelFormFixed, true)
}

func (s *Store) AutoChandraPosFixed() bool {
	return s.Bool(KeyAutoChandraPosFixed, true)
}

func (s *Store) TraditionalKarFixed() bool {
	return s.Bool(KeyTraditionalKarFixed, true)
}

func (s *Store) FixedOldKarOrder() bool {
	return s.Bool(KeyFixedOldKarOrder, true)
}

func (s *Store) OldReph() bool {
	return s.Bool(KeyOldReph, true)
}

// NumberPadFixed lets the layout map keypad keys.
func (s *Store) NumberPadFixed() bool {
	return s.Bool(KeyNumberPadFixed, true)
}

func (s *Store) ANSIEncoding() bool {
	return s.Bool(KeyANSIEncoding, true)
}

func (s *Store) SmartQuoting() bool {
	return s.Bool(KeySmartQuoting, true)
}

// CandidateWinHorizontal selects a horizontal candidate window.
func (s *Store) CandidateWinHorizontal() bool {
	return s.Bool(KeyCandidateWinHorizontal, true)
}

func (s *Store) ShowCWPhonetic() bool {
	return s.Bool(KeyShowCWPhonetic, true)
}

// SuggestionIncludeEnglish adds the typed ASCII as a candidate.
func (s *Store) SuggestionIncludeEnglish() bool {
	return s.Bool(KeySuggestionIncludeEnglish, true)
}
