// Package ime bridges a Bangla transliteration engine to the IBus input
// method framework.
//
// # Architecture
//
// One State is shared by every engine object ibus-daemon asks the factory
// to create. The host delivers key events and UI callbacks; State decides
// whether to consume the key, drives the engine and repaints the host UI
// through the Display interface:
//
//	ibus-daemon ──D-Bus──▶ Server ──▶ State ──▶ engine.Engine
//	     ▲                              │
//	     └──── signals ◀── Display ◀────┘
//
// State holds the last suggestion (as a SuggestionView), the lookup table
// and the AltGr latch. It locks for the full duration of each event.
//
// # Key handling
//
// Key releases are ignored except for Alt_R and ISO_Level3_Shift, which
// clear AltGr. Control or Alt chords, and keys with no engine key code,
// commit the pending word and pass the key through. While composing:
//
//	Return, KP_Enter  commit the selected candidate
//	space             commit, then let the host insert the space
//	BackSpace         remove a character (a word with Control)
//	Tab, arrows       move the candidate cursor
//
// The arrow keys follow the candidate window orientation. In a horizontal
// window Left and Right move the cursor and Up and Down end the word.
//
// # Configuration
//
// Engine options are read from a Settings source before every idle key
// press and whenever SettingsChanged is called, so edits apply on the
// next word.
//
// # Registration
//
// On Linux, LinuxPlatform writes the IBus component file that tells
// ibus-daemon how to launch the engine binary and selects the engine with
// the ibus command line tool.
package ime
