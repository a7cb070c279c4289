//go:build linux

// openbangla-ibus is the OpenBangla Keyboard IBus engine.
//
// ibus-daemon starts it with --ibus using the component file written by
// --install. Started by hand it connects to the running daemon and
// selects itself as the global engine.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"openbangla/internal/config"
	"openbangla/internal/history"
	"openbangla/internal/ime"
	"openbangla/internal/layout"
	"openbangla/internal/logging"
	"openbangla/internal/metrics"
	"openbangla/internal/settings"
)

// Set via ldflags.
var version = "development"

// Crash reports older than this are removed at startup.
const crashReportMaxAge = 30 * 24 * time.Hour

type options struct {
	IBus      bool   `long:"ibus" description:"Run as a component launched by ibus-daemon"`
	Install   bool   `long:"install" description:"Register the IBus component for the current user"`
	Uninstall bool   `long:"uninstall" description:"Remove the IBus component"`
	Check     bool   `long:"check" description:"Diagnose the installation and exit"`
	Config    string `short:"c" long:"config" description:"Configuration file" value-name:"FILE"`
	LogLevel  string `long:"log-level" description:"Override the configured log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	Metrics   string `long:"metrics" description:"Write counters in Prometheus text format to FILE on exit" value-name:"FILE"`
	Version   bool   `short:"v" long:"version" description:"Show the program version"`
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

	if opts.Version {
		fmt.Printf("openbangla-ibus %s\n", version)
		return
	}

	if opts.Check {
		runCheck(opts)
		return
	}

	if opts.Install || opts.Uninstall {
		if err := register(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func register(opts options) error {
	path := opts.Config
	if path == "" {
		path = config.ConfigPath()
	}

	if opts.Uninstall {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		p := ime.NewPlatform(platformConfig(cfg, opts.Config))
		if err := p.Uninstall(); err != nil {
			return fmt.Errorf("uninstall: %w", err)
		}
		fmt.Println("IBus component removed.")
		return nil
	}

	cfg, created, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Wrote default configuration to %s\n", path)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	p := ime.NewPlatform(platformConfig(cfg, opts.Config))
	if !p.Available() {
		fmt.Fprintln(os.Stderr, "Warning: ibus-daemon not found, the component will load once IBus is installed.")
	}
	if err := p.Install(); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	fmt.Printf("IBus component installed in %s\n", cfg.IBus.ComponentDir)
	fmt.Println("Add \"OpenBangla Keyboard\" from your input source settings.")
	return nil
}

func platformConfig(cfg *config.Config, configPath string) ime.PlatformConfig {
	pc := ime.DefaultPlatformConfig(cfg.IBus.ComponentDir)
	pc.BusName = cfg.IBus.BusName
	pc.EngineName = cfg.IBus.EngineName
	pc.ConfigPath = configPath
	return pc
}

func run(opts options) error {
	loader := config.NewLoader(opts.Config)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logCfg, err := cfg.Logging.LoggerConfig("ibus")
	if err != nil {
		return err
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	if m := loader.Migration(); m != nil {
		logger.Info("configuration migrated",
			"from", m.FromVersion, "to", m.ToVersion, "changes", len(m.Changes))
		for _, w := range m.Warnings {
			logger.Warn("configuration migration", "warning", w)
		}
	}

	crash := logging.NewCrashHandler(&logging.CrashHandlerConfig{
		CrashDir:  cfg.Logging.CrashDir,
		Version:   version,
		Component: "ibus",
	})
	if err := crash.CleanupOldCrashReports(crashReportMaxAge); err != nil {
		logger.Warn("clean up crash reports", "dir", cfg.Logging.CrashDir, "error", err)
	}

	prefs, err := settings.Open(cfg.Settings.Path, logger.WithComponent("settings").Logger)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			logger.Error("close settings", "error", err)
		}
	}()

	var hist layout.History
	if cfg.History.Enabled {
		h, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer h.Close()
		hist = h
	}

	stats := metrics.NewIME(metrics.NewRegistry("openbangla"))
	eng := layout.NewEngine(hist, logger.WithComponent("layout").Logger)
	state := ime.NewState(eng, prefs, ime.Options{
		PageSize:    cfg.Lookup.PageSize,
		DatabaseDir: cfg.Engine.DatabaseDir,
		Logger:      logger.WithComponent("ime").Logger,
		Metrics:     stats,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := ime.NewServer(state, ime.BusConfig{
		Address:    cfg.IBus.Address,
		BusName:    cfg.IBus.BusName,
		EngineName: cfg.IBus.EngineName,
		Exec:       opts.IBus,
	}, logger.WithComponent("dbus").Logger, crash)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start ibus engine: %w", err)
	}
	defer srv.Close()

	if cfg.Settings.Watch {
		onChange := func() {
			crash.Recover(map[string]interface{}{"event": "settings changed"}, state.SettingsChanged)
		}
		if err := prefs.Watch(onChange); err != nil {
			logger.Warn("settings watch unavailable", "error", err)
		}
	}

	logger.Info("openbangla-ibus running", "version", version, "layout", eng.Layout().Info.Name)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case <-srv.Done():
		logger.Info("ibus connection closed")
	}

	state.Shutdown()
	logger.LogAttrs(ctx, slog.LevelInfo, "session statistics", stats.Registry.Attrs()...)
	if opts.Metrics != "" {
		if err := writeMetrics(opts.Metrics, stats.Registry); err != nil {
			logger.Error("write metrics", "path", opts.Metrics, "error", err)
		}
	}
	return nil
}

func writeMetrics(path string, r *metrics.Registry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WritePrometheus(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
