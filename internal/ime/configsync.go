package ime

import "openbangla/internal/engine"

// Settings is the read side of the user preference store.
type Settings interface {
	LayoutPath() string
	ShowPrevWinFixed() bool
	AutoVowelFormFixed() bool
	AutoChandraPosFixed() bool
	TraditionalKarFixed() bool
	FixedOldKarOrder() bool
	OldReph() bool
	NumberPadFixed() bool
	ANSIEncoding() bool
	SmartQuoting() bool
	CandidateWinHorizontal() bool
	ShowCWPhonetic() bool
	SuggestionIncludeEnglish() bool
}

// EngineConfig derives the engine configuration from the current settings.
func EngineConfig(s Settings, databaseDir string) engine.Config {
	return engine.Config{
		DatabaseDir:              databaseDir,
		LayoutPath:               s.LayoutPath(),
		PhoneticSuggestion:       s.ShowCWPhonetic(),
		SuggestionIncludeEnglish: s.SuggestionIncludeEnglish(),
		FixedSuggestion:          s.ShowPrevWinFixed(),
		FixedAutomaticVowel:      s.AutoVowelFormFixed(),
		FixedAutomaticChandra:    s.AutoChandraPosFixed(),
		FixedTraditionalKar:      s.TraditionalKarFixed(),
		FixedOldKarOrder:         s.FixedOldKarOrder(),
		FixedOldReph:             s.OldReph(),
		FixedNumpad:              s.NumberPadFixed(),
		ANSIEncoding:             s.ANSIEncoding(),
		SmartQuote:               s.SmartQuoting(),
	}
}

// CandidateOrientation is the lookup table orientation the settings ask for.
func CandidateOrientation(s Settings) Orientation {
	if s.CandidateWinHorizontal() {
		return OrientationHorizontal
	}
	return OrientationVertical
}
