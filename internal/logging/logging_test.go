package logging

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		hasError bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"invalid", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			level, err := ParseLevel(test.input)
			if test.hasError && err == nil {
				t.Error("expected error, got nil")
			}
			if !test.hasError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.hasError && level != test.expected {
				t.Errorf("expected %v, got %v", test.expected, level)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	for _, level := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		parsed, err := ParseLevel(LevelString(level))
		if err != nil || parsed != level {
			t.Errorf("LevelString(%v) does not round trip: %q", level, LevelString(level))
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("expected default level Info, got %v", cfg.Level)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected default output stderr, got %s", cfg.Output)
	}
	if cfg.FilePath != "/tmp/state/openbangla/openbangla-ibus.log" {
		t.Errorf("unexpected default log path %s", cfg.FilePath)
	}
	if cfg.MaxSize <= 0 || cfg.MaxBackups <= 0 {
		t.Errorf("expected positive rotation limits, got %d/%d", cfg.MaxSize, cfg.MaxBackups)
	}
}

func TestShouldRedact(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"text", true},
		{"commit_text", true},
		{"preedit", true},
		{"candidate", true},
		{"input", true},
		{"word", true},
		{"index", false},
		{"keyval", false},
		{"mods", false},
		{"path", false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			if got := shouldRedact(test.key); got != test.expected {
				t.Errorf("shouldRedact(%q) = %v, expected %v", test.key, got, test.expected)
			}
		})
	}
}

func TestJSONFormatRedactsText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{
		Level:     LevelDebug,
		Format:    FormatJSON,
		Output:    "stderr",
		Component: "test",
		Writer:    &buf,
	})
	if err != nil {
		t.Fatalf("failed to create JSON logger: %v", err)
	}
	defer logger.Close()

	logger.WithComponent("ime").Info("committed", "text", "আমি", "index", 1)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["text"] != "[REDACTED]" {
		t.Errorf("text not redacted: %v", entry["text"])
	}
	if entry["index"] != float64(1) {
		t.Errorf("index = %v", entry["index"])
	}
	if entry["component"] != "ime" {
		t.Errorf("component = %v", entry["component"])
	}
}

func TestLogTextDisablesRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: LevelInfo, Writer: &buf, LogText: true})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("committed", "text", "আমি")
	if !strings.Contains(buf.String(), "আমি") {
		t.Errorf("expected text in output, got %s", buf.String())
	}
}

func TestFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")
	logger, err := New(&Config{Level: LevelInfo, Output: "file", FilePath: logPath, MaxSize: 1})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	logger.Info("engine enabled")
	if err := logger.Sync(); err != nil {
		t.Errorf("sync failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "engine enabled") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestFileRotatorRotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	rotator, err := NewFileRotator(&Config{FilePath: logPath, MaxSize: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("failed to create rotator: %v", err)
	}
	defer rotator.Close()
	rotator.maxBytes = 64

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 10; i++ {
		if _, err := rotator.Write(line); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	for _, path := range []string{logPath, logPath + ".1", logPath + ".2"} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("backup beyond MaxBackups was kept")
	}
}

func TestFileRotatorCompress(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	rotator, err := NewFileRotator(&Config{FilePath: logPath, MaxSize: 1, MaxBackups: 3, Compress: true})
	if err != nil {
		t.Fatalf("failed to create rotator: %v", err)
	}
	defer rotator.Close()
	rotator.maxBytes = 16

	rotator.Write([]byte("first line here\n"))
	rotator.Write([]byte("second line\n"))

	f, err := os.Open(logPath + ".1.gz")
	if err != nil {
		t.Fatalf("compressed backup missing: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(gz)
	if string(data) != "first line here\n" {
		t.Errorf("backup content = %q", data)
	}
	if _, err := os.Stat(logPath + ".1"); !os.IsNotExist(err) {
		t.Error("uncompressed backup left behind")
	}
}

func TestCrashHandler(t *testing.T) {
	tmpDir := t.TempDir()

	var seen CrashReport
	handler := NewCrashHandler(&CrashHandlerConfig{
		CrashDir:  tmpDir,
		Version:   "1.0.0",
		Component: "test",
		OnCrash:   func(r CrashReport) { seen = r },
	})

	handler.HandlePanic("invalid key event state", map[string]interface{}{
		"method": "ProcessKeyEvent",
	})

	reports, err := handler.GetCrashReports()
	if err != nil {
		t.Fatalf("failed to get crash reports: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 crash report, got %d", len(reports))
	}

	report := reports[0]
	if report.PanicValue != "invalid key event state" {
		t.Errorf("unexpected panic value %q", report.PanicValue)
	}
	if report.Version != "1.0.0" || report.Component != "test" {
		t.Errorf("unexpected version/component %q/%q", report.Version, report.Component)
	}
	if report.Context["method"] != "ProcessKeyEvent" {
		t.Errorf("unexpected context %v", report.Context)
	}
	if seen.PanicValue != report.PanicValue {
		t.Error("OnCrash not called")
	}
}

func TestCrashHandlerRecover(t *testing.T) {
	handler := NewCrashHandler(&CrashHandlerConfig{CrashDir: t.TempDir(), Component: "test"})

	ran := false
	handler.Recover(nil, func() {
		ran = true
		panic("intentional test panic")
	})
	if !ran {
		t.Error("function did not run")
	}

	reports, _ := handler.GetCrashReports()
	if len(reports) != 1 {
		t.Errorf("expected 1 crash report, got %d", len(reports))
	}
}

func TestCrashHandlerFatal(t *testing.T) {
	code := -1
	handler := NewCrashHandler(&CrashHandlerConfig{
		CrashDir: t.TempDir(),
		Exit:     func(c int) { code = c },
	})

	handler.Fatal("boom", nil)
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestCrashHandlerCleanupOld(t *testing.T) {
	tmpDir := t.TempDir()
	handler := NewCrashHandler(&CrashHandlerConfig{CrashDir: tmpDir, Component: "test"})

	handler.HandlePanic("old panic", nil)
	old := time.Now().Add(-48 * time.Hour)
	files, _ := filepath.Glob(filepath.Join(tmpDir, "crash-*.json"))
	for _, f := range files {
		os.Chtimes(f, old, old)
	}
	handler.HandlePanic("new panic", nil)

	if err := handler.CleanupOldCrashReports(24 * time.Hour); err != nil {
		t.Fatalf("CleanupOldCrashReports failed: %v", err)
	}

	reports, _ := handler.GetCrashReports()
	if len(reports) != 1 || reports[0].PanicValue != "new panic" {
		t.Errorf("unexpected reports after cleanup: %+v", reports)
	}
}
