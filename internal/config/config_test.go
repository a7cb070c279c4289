package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"openbangla/internal/logging"
)

// isolate points every directory lookup at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, env := range []string{
		"OPENBANGLA_CONFIG_DIR", "OPENBANGLA_DATA_DIR", "OPENBANGLA_IBUS_ADDRESS",
		"OPENBANGLA_PAGE_SIZE", "OPENBANGLA_SETTINGS_PATH", "OPENBANGLA_HISTORY_PATH",
		"OPENBANGLA_DATABASE_DIR", "OPENBANGLA_LOG_LEVEL", "OPENBANGLA_LOG_PATH",
		"OPENBANGLA_LOG_TEXT",
	} {
		t.Setenv(env, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	dir := isolate(t)
	cfg := DefaultConfig()

	if cfg.Version != Version {
		t.Errorf("expected version %d, got %d", Version, cfg.Version)
	}
	if cfg.Lookup.PageSize != 10 {
		t.Errorf("expected page size 10, got %d", cfg.Lookup.PageSize)
	}
	if cfg.IBus.BusName != "org.freedesktop.IBus.OpenBangla" {
		t.Errorf("unexpected bus name %s", cfg.IBus.BusName)
	}
	if want := filepath.Join(dir, "config", "openbangla", "settings.toml"); cfg.Settings.Path != want {
		t.Errorf("settings path = %s, want %s", cfg.Settings.Path, want)
	}
	if want := filepath.Join(dir, "data", "openbangla", "history.db"); cfg.History.Path != want {
		t.Errorf("history path = %s, want %s", cfg.History.Path, want)
	}
	if want := filepath.Join(dir, "data", "ibus", "component"); cfg.IBus.ComponentDir != want {
		t.Errorf("component dir = %s, want %s", cfg.IBus.ComponentDir, want)
	}
	if !strings.HasPrefix(cfg.Logging.FilePath, filepath.Join(dir, "state")) {
		t.Errorf("log path should be under XDG_STATE_HOME: %s", cfg.Logging.FilePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("OPENBANGLA_CONFIG_DIR", dir)

	if got := ConfigPath(); got != filepath.Join(dir, "config.toml") {
		t.Errorf("ConfigPath() = %s", got)
	}

	writeFile(t, filepath.Join(dir, "config.yaml"), "lookup:\n  page_size: 5\n")
	if got := ConfigPath(); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("ConfigPath() = %s, want the existing yaml file", got)
	}
}

func TestLoadNonexistent(t *testing.T) {
	isolate(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", "[lookup]\npage_size = 7\n\n[logging]\nlevel = \"debug\"\n"},
		{"json", "config.json", `{"lookup": {"page_size": 7}, "logging": {"level": "debug"}}`},
		{"yaml", "config.yaml", "lookup:\n  page_size: 7\nlogging:\n  level: debug\n"},
		{"detect json", "config.conf", `{"lookup": {"page_size": 7}, "logging": {"level": "debug"}}`},
		{"detect yaml", "openbangla.cfg", "lookup:\n  page_size: 7\nlogging:\n  level: debug\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Lookup.PageSize != 7 {
				t.Errorf("page size = %d, want 7", cfg.Lookup.PageSize)
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("level = %s, want debug", cfg.Logging.Level)
			}
			// untouched sections keep their defaults
			if !cfg.Settings.Watch || cfg.Logging.Format != "text" {
				t.Errorf("defaults lost: %+v", cfg)
			}
		})
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[lookup\npage_size = ")

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("OPENBANGLA_IBUS_ADDRESS", "unix:path=/tmp/ibus")
	t.Setenv("OPENBANGLA_PAGE_SIZE", "4")
	t.Setenv("OPENBANGLA_LOG_LEVEL", "warn")
	t.Setenv("OPENBANGLA_LOG_TEXT", "true")
	t.Setenv("OPENBANGLA_HISTORY_PATH", "/tmp/h.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IBus.Address != "unix:path=/tmp/ibus" {
		t.Errorf("address = %s", cfg.IBus.Address)
	}
	if cfg.Lookup.PageSize != 4 {
		t.Errorf("page size = %d", cfg.Lookup.PageSize)
	}
	if cfg.Logging.Level != "warn" || !cfg.Logging.LogText {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.History.Path != "/tmp/h.db" {
		t.Errorf("history path = %s", cfg.History.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"version", func(c *Config) { c.Version = Version + 1 }, "version"},
		{"page size zero", func(c *Config) { c.Lookup.PageSize = 0 }, "lookup.page_size"},
		{"page size large", func(c *Config) { c.Lookup.PageSize = MaxPageSize + 1 }, "lookup.page_size"},
		{"bus name", func(c *Config) { c.IBus.BusName = "OpenBangla" }, "ibus.bus_name"},
		{"engine name", func(c *Config) { c.IBus.EngineName = "" }, "ibus.engine_name"},
		{"settings path", func(c *Config) { c.Settings.Path = "" }, "settings.path"},
		{"history path", func(c *Config) { c.History.Path = "" }, "history.path"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log output", func(c *Config) { c.Logging.Output = "syslog" }, "logging.output"},
		{"log file", func(c *Config) { c.Logging.Output = "both"; c.Logging.FilePath = "" }, "logging.file_path"},
		{"max backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tt.field {
				t.Errorf("errors = %v, want one on %s", verrs, tt.field)
			}
		})
	}
}

func TestValidateDisabledHistoryNeedsNoPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.Enabled = false
	cfg.History.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidationErrorsJoin(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	if got := errs.Error(); got != "config: a: bad; config: b: worse" {
		t.Errorf("Error() = %q", got)
	}
}

func TestLoaderLoadValidates(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[lookup]\npage_size = 99\n")

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("expected validation error")
	}
}

func TestMigrateV1(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", `version = 1

[candidate]
page_size = 5

[settings]
file = "/srv/prefs.toml"

[logging]
level = "debug"
max_size = 4
`},
		{"yaml", "config.yaml", `version: 1
candidate:
  page_size: 5
settings:
  file: /srv/prefs.toml
logging:
  level: debug
  max_size: 4
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			loader := NewLoader(path)
			cfg, err := loader.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Version != Version {
				t.Errorf("version = %d, want %d", cfg.Version, Version)
			}
			if cfg.Lookup.PageSize != 5 {
				t.Errorf("page size = %d, want 5", cfg.Lookup.PageSize)
			}
			if cfg.Settings.Path != "/srv/prefs.toml" {
				t.Errorf("settings path = %s", cfg.Settings.Path)
			}
			if !cfg.Settings.Watch {
				t.Error("settings.watch default lost")
			}
			if cfg.Logging.MaxSizeMB != 4 || cfg.Logging.Level != "debug" {
				t.Errorf("logging = %+v", cfg.Logging)
			}

			result := loader.Migration()
			if result == nil {
				t.Fatal("expected a migration result")
			}
			if result.FromVersion != 1 || result.ToVersion != Version {
				t.Errorf("result = %+v", result)
			}
			if len(result.Changes) != 3 {
				t.Errorf("changes = %v", result.Changes)
			}
		})
	}
}

func TestMigrateConflictWarns(t *testing.T) {
	raw := map[string]interface{}{
		"version":   1,
		"candidate": map[string]interface{}{"page_size": 5},
		"lookup":    map[string]interface{}{"page_size": 8},
	}
	result, err := MigrateConfig(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) != 1 || len(result.Changes) != 0 {
		t.Errorf("result = %+v", result)
	}
	if raw["lookup"].(map[string]interface{})["page_size"] != 8 {
		t.Error("newer key was overwritten")
	}
	if _, ok := raw["candidate"]; ok {
		t.Error("empty legacy table kept")
	}
}

func TestMigrateCurrentIsNoop(t *testing.T) {
	result, err := MigrateConfig(map[string]interface{}{"version": int64(Version)})
	if err != nil || result != nil {
		t.Errorf("MigrateConfig = %v, %v", result, err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, ext := range SupportedConfigFormats() {
		t.Run(ext, func(t *testing.T) {
			isolate(t)
			cfg := DefaultConfig()
			cfg.Lookup.PageSize = 6
			cfg.IBus.Address = "unix:path=/tmp/bus"
			cfg.Logging.LogText = true

			path := filepath.Join(t.TempDir(), "nested", "config."+ext)
			if err := SaveConfig(cfg, path); err != nil {
				t.Fatalf("SaveConfig failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
			}
		})
	}
}

func TestLoadOrCreate(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	_, created, err := LoadOrCreate(path)
	if err != nil || !created {
		t.Fatalf("LoadOrCreate = %v, %v", created, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	_, created, err = LoadOrCreate(path)
	if err != nil || created {
		t.Errorf("second LoadOrCreate = %v, %v", created, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Settings.Path = filepath.Join(dir, "prefs", "settings.toml")
	cfg.History.Path = filepath.Join(dir, "hist", "history.db")
	cfg.Logging.CrashDir = filepath.Join(dir, "crashes")
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(dir, "logs", "x.log")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, sub := range []string{"prefs", "hist", "crashes", "logs"} {
		if info, err := os.Stat(filepath.Join(dir, sub)); err != nil || !info.IsDir() {
			t.Errorf("directory %s not created", sub)
		}
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Lookup.PageSize = 3
	if cfg.Lookup.PageSize == 3 {
		t.Error("Clone shares state with the original")
	}
}

func TestLoggerConfig(t *testing.T) {
	l := LoggingConfig{Level: "debug", Format: "json", Output: "both", FilePath: "/tmp/x.log", MaxSizeMB: 2, MaxBackups: 1, LogText: true}
	lc, err := l.LoggerConfig("ime")
	if err != nil {
		t.Fatal(err)
	}
	if lc.Level != logging.LevelDebug || lc.Format != logging.FormatJSON {
		t.Errorf("level/format = %v/%v", lc.Level, lc.Format)
	}
	if lc.MaxSize != 2 || lc.MaxBackups != 1 || !lc.LogText || lc.Component != "ime" {
		t.Errorf("unexpected %+v", lc)
	}

	l.Level = "loud"
	if _, err := l.LoggerConfig("ime"); err == nil {
		t.Error("expected error for bad level")
	}
}
