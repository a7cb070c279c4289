//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"openbangla/internal/config"
	"openbangla/internal/health"
	"openbangla/internal/history"
	"openbangla/internal/ime"
	"openbangla/internal/layout"
	"openbangla/internal/logging"
	"openbangla/internal/settings"
)

var errUnhealthy = errors.New("installation is unhealthy")

// check diagnoses the installation and prints a report to w.
func check(ctx context.Context, w io.Writer, opts options) error {
	path := opts.Config
	if path == "" {
		path = config.ConfigPath()
	}

	c := health.NewChecker()

	cfg, loadErr := config.Load(path)
	c.RegisterFunc("config", true, health.CustomCheck(func() (string, error) {
		if loadErr != nil {
			return path, loadErr
		}
		return path, cfg.Validate()
	}))
	if loadErr != nil {
		cfg = config.DefaultConfig()
	}

	pc := platformConfig(cfg, opts.Config)
	p := ime.NewPlatform(pc)

	c.RegisterFunc("ibus", false, health.CustomCheck(func() (string, error) {
		if !p.Available() {
			return "ibus-daemon", errors.New("not found")
		}
		return "ibus-daemon found", nil
	}))
	c.RegisterFunc("component", true, health.FileExistsCheck(pc.ComponentFile()))
	c.RegisterFunc("engine", false, health.CustomCheck(func() (string, error) {
		if !p.IsActive() {
			return pc.EngineName, errors.New("not the active engine")
		}
		return pc.EngineName + " is active", nil
	}))

	c.RegisterFunc("settings", true, health.CustomCheck(func() (string, error) {
		prefs, err := settings.Open(cfg.Settings.Path, nil)
		if err != nil {
			return cfg.Settings.Path, err
		}
		defer prefs.Close()

		// a broken layout falls back to the builtin one
		if lp := prefs.LayoutPath(); lp != "" {
			if _, err := layout.LoadFile(lp); err != nil {
				return cfg.Settings.Path, fmt.Errorf("layout: %w", err)
			}
			return "layout " + lp, nil
		}
		return "builtin layout " + layout.Builtin().Info.Name, nil
	}))

	c.RegisterFunc("crashes", false, health.CustomCheck(func() (string, error) {
		return recentCrashes(cfg.Logging.CrashDir, crashReportMaxAge)
	}))

	if cfg.History.Enabled {
		c.RegisterFunc("history", false, health.DatabaseCheck(func(ctx context.Context) error {
			h, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer h.Close()
			_, err = h.Ping(ctx)
			return err
		}))
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	report := c.Check(ctx)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range report {
		line := e.Message
		if e.Error != "" {
			line += ": " + e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Status, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	status := report.Status()
	fmt.Fprintf(w, "\noverall: %s\n", status)
	if status == health.StatusUnhealthy {
		return errUnhealthy
	}
	return nil
}

// recentCrashes fails when the crash directory holds reports newer than
// maxAge.
func recentCrashes(dir string, maxAge time.Duration) (string, error) {
	reports, err := logging.NewCrashHandler(&logging.CrashHandlerConfig{CrashDir: dir}).GetCrashReports()
	if err != nil {
		return dir, err
	}
	cutoff := time.Now().Add(-maxAge)
	n := 0
	for _, r := range reports {
		if r.Timestamp.After(cutoff) {
			n++
		}
	}
	if n > 0 {
		return dir, fmt.Errorf("%d crash reports", n)
	}
	return "no recent crash reports", nil
}

func runCheck(opts options) {
	if err := check(context.Background(), os.Stdout, opts); err != nil {
		if !errors.Is(err, errUnhealthy) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
