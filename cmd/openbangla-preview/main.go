// openbangla-preview runs the input method in a terminal, without IBus.
//
// Keys typed in the terminal are converted to IBus key events and fed to
// the same dispatcher the IBus engine uses, with the builtin fixed layout
// engine and the user's settings. The preedit, auxiliary text and lookup
// table are drawn below the text they would be typed into.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/jessevdk/go-flags"

	"openbangla/internal/config"
	"openbangla/internal/history"
	"openbangla/internal/ime"
	"openbangla/internal/keymap"
	"openbangla/internal/layout"
	"openbangla/internal/logging"
	"openbangla/internal/metrics"
	"openbangla/internal/settings"
)

type options struct {
	Config    string `short:"c" long:"config" description:"Configuration file" value-name:"FILE"`
	Settings  string `short:"s" long:"settings" description:"Settings file, overriding the configured one" value-name:"FILE"`
	NoHistory bool   `long:"no-history" description:"Do not read or record the selection history"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.NewLoader(opts.Config).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Settings != "" {
		cfg.Settings.Path = opts.Settings
	}
	// the terminal belongs to the preview
	cfg.Logging.Output = "file"
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logCfg, err := cfg.Logging.LoggerConfig("preview")
	if err != nil {
		return err
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	prefs, err := settings.Open(cfg.Settings.Path, logger.WithComponent("settings").Logger)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	defer prefs.Close()

	var hist layout.History
	if cfg.History.Enabled && !opts.NoHistory {
		h, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer h.Close()
		hist = h
	}

	stats := metrics.NewIME(nil)
	eng := layout.NewEngine(hist, logger.WithComponent("layout").Logger)
	state := ime.NewState(eng, prefs, ime.Options{
		PageSize:    cfg.Lookup.PageSize,
		DatabaseDir: cfg.Engine.DatabaseDir,
		Logger:      logger.WithComponent("ime").Logger,
		Metrics:     stats,
	})
	defer state.Shutdown()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	p := &preview{
		screen: screen,
		state:  state,
		prefs:  prefs,
		engine: eng,
		stats:  stats,
		d:      newScreenDisplay(),
		status: "settings: " + prefs.Path(),
	}
	state.Enable(p.d)
	state.FocusIn(p.d)
	p.loop()
	state.FocusOut(p.d)
	return nil
}

type preview struct {
	screen tcell.Screen
	state  *ime.State
	prefs  *settings.Store
	engine *layout.Engine
	stats  *metrics.IME
	d      *screenDisplay

	altGr  bool
	status string
}

func (p *preview) loop() {
	p.draw()
	for {
		switch ev := p.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			p.screen.Sync()
		case *tcell.EventKey:
			if !p.handleKey(ev) {
				return
			}
		}
		p.draw()
	}
}

// handleKey reports false when the preview should exit.
func (p *preview) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyF2:
		p.toggleOrientation()
		return true
	case tcell.KeyF3:
		p.toggleAltGr()
		return true
	case tcell.KeyPgUp:
		p.state.PageUp(p.d)
		return true
	case tcell.KeyPgDn:
		p.state.PageDown(p.d)
		return true
	}

	keyval, state, ok := translateKey(ev)
	if !ok {
		return true
	}
	if p.altGr {
		state |= ime.IBusMod5Mask
	}
	consumed := p.state.ProcessKeyEvent(p.d, keyval, 0, state)
	if !consumed {
		p.d.passThrough(keyval, state)
	}
	p.status = describe(keyval, state, consumed)
	return true
}

// toggleAltGr stands in for holding the right Alt key, which terminals
// do not report.
func (p *preview) toggleAltGr() {
	p.altGr = !p.altGr
	var state uint32
	if !p.altGr {
		state = ime.IBusReleaseMask
	}
	p.state.ProcessKeyEvent(p.d, keymap.KeyISOLevel3Shift, 0, state)
	p.status = "AltGr " + onOff(p.altGr)
}

func (p *preview) toggleOrientation() {
	horizontal := !p.prefs.CandidateWinHorizontal()
	p.prefs.Set(settings.KeyCandidateWinHorizontal, horizontal)
	if err := p.prefs.Sync(); err != nil {
		p.status = "save settings: " + err.Error()
		return
	}
	p.state.SettingsChanged()
	p.status = "candidate window horizontal " + onOff(horizontal)
	if p.state.SessionActive() {
		p.status += " (after this word)"
	}
}

func (p *preview) draw() {
	header := fmt.Sprintf("OpenBangla preview  layout %s  words %d", p.engine.Layout().Info.Name, p.stats.Commits.Value())
	if p.altGr {
		header += "  [AltGr]"
	}
	p.d.draw(p.screen, header, p.status, p.state.Orientation())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
