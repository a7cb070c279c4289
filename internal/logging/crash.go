package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// CrashReport represents information about a crash.
type CrashReport struct {
	Timestamp    time.Time              `json:"timestamp"`
	Version      string                 `json:"version"`
	BuildInfo    *debug.BuildInfo       `json:"build_info,omitempty"`
	GOOS         string                 `json:"goos"`
	GOARCH       string                 `json:"goarch"`
	NumGoroutine int                    `json:"num_goroutine"`
	PanicValue   string                 `json:"panic_value"`
	StackTrace   string                 `json:"stack_trace"`
	Component    string                 `json:"component,omitempty"`
	Context      map[string]interface{} `json:"context,omitempty"`
}

// CrashHandler writes crash reports for invariant violations and aborts
// the process.
type CrashHandler struct {
	mu        sync.Mutex
	crashDir  string
	version   string
	component string
	exit      func(int)
	onCrash   func(CrashReport)
}

// CrashHandlerConfig configures the crash handler.
type CrashHandlerConfig struct {
	// CrashDir is the directory to write crash dumps.
	CrashDir string

	// Version is the application version.
	Version string

	// Component is the component name.
	Component string

	// Exit terminates the process after a fatal crash. Defaults to os.Exit.
	Exit func(int)

	// OnCrash is called after a crash is logged.
	OnCrash func(CrashReport)
}

// DefaultCrashDir returns $XDG_STATE_HOME/openbangla/crashes.
func DefaultCrashDir() string {
	return filepath.Join(StateDir(), "crashes")
}

// NewCrashHandler creates a new CrashHandler.
func NewCrashHandler(cfg *CrashHandlerConfig) *CrashHandler {
	if cfg == nil {
		cfg = &CrashHandlerConfig{}
	}
	h := &CrashHandler{
		crashDir:  cfg.CrashDir,
		version:   cfg.Version,
		component: cfg.Component,
		exit:      cfg.Exit,
		onCrash:   cfg.OnCrash,
	}
	if h.crashDir == "" {
		h.crashDir = DefaultCrashDir()
	}
	if h.exit == nil {
		h.exit = os.Exit
	}
	return h
}

// Recover wraps a function with panic recovery. The panic is reported and
// then swallowed.
func (h *CrashHandler) Recover(contextInfo map[string]interface{}, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.HandlePanic(r, contextInfo)
		}
	}()
	fn()
}

// Fatal reports a panic and exits with status 2, the status of an
// unrecovered Go panic.
func (h *CrashHandler) Fatal(panicValue interface{}, contextInfo map[string]interface{}) {
	h.HandlePanic(panicValue, contextInfo)
	h.exit(2)
}

// HandlePanic writes a crash report for panicValue.
func (h *CrashHandler) HandlePanic(panicValue interface{}, contextInfo map[string]interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	report := CrashReport{
		Timestamp:    time.Now().UTC(),
		Version:      h.version,
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
		NumGoroutine: runtime.NumGoroutine(),
		PanicValue:   fmt.Sprintf("%v", panicValue),
		StackTrace:   string(debug.Stack()),
		Component:    h.component,
		Context:      contextInfo,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		report.BuildInfo = bi
	}

	path, err := h.writeCrashDump(report)

	if h.onCrash != nil {
		h.onCrash(report)
	}

	fmt.Fprintf(os.Stderr, "\n=== CRASH REPORT ===\n")
	fmt.Fprintf(os.Stderr, "Time: %s\n", report.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(os.Stderr, "Panic: %s\n", report.PanicValue)
	fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", report.StackTrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crash dump not written: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "Crash dump written to: %s\n", path)
	}
}

func (h *CrashHandler) writeCrashDump(report CrashReport) (string, error) {
	if err := os.MkdirAll(h.crashDir, 0750); err != nil {
		return "", fmt.Errorf("create crash dir: %w", err)
	}

	filename := fmt.Sprintf("crash-%s-%s.json",
		report.Component,
		report.Timestamp.Format("20060102-150405.000000000"))
	path := filepath.Join(h.crashDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal crash report: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}

// GetCrashReports returns every crash report in the crash directory.
func (h *CrashHandler) GetCrashReports() ([]CrashReport, error) {
	files, err := filepath.Glob(filepath.Join(h.crashDir, "crash-*.json"))
	if err != nil {
		return nil, err
	}

	reports := make([]CrashReport, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		var report CrashReport
		if err := json.Unmarshal(data, &report); err != nil {
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// CleanupOldCrashReports removes crash reports older than maxAge.
func (h *CrashHandler) CleanupOldCrashReports(maxAge time.Duration) error {
	files, err := filepath.Glob(filepath.Join(h.crashDir, "crash-*.json"))
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(file)
		}
	}
	return nil
}
