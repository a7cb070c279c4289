// Package config handles process configuration for the OpenBangla IBus
// engine: where to find the bus, where preferences and history live and
// how to log. User typing preferences live in the settings store instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"openbangla/internal/logging"
)

// Version is the current configuration schema version.
const Version = 2

// Config holds the complete process configuration.
type Config struct {
	// Version is the configuration schema version for migrations.
	Version int `toml:"version" json:"version" yaml:"version"`

	IBus     IBusConfig     `toml:"ibus" json:"ibus" yaml:"ibus"`
	Lookup   LookupConfig   `toml:"lookup" json:"lookup" yaml:"lookup"`
	Settings SettingsConfig `toml:"settings" json:"settings" yaml:"settings"`
	History  HistoryConfig  `toml:"history" json:"history" yaml:"history"`
	Engine   EngineConfig   `toml:"engine" json:"engine" yaml:"engine"`
	Logging  LoggingConfig  `toml:"logging" json:"logging" yaml:"logging"`
}

// IBusConfig locates the IBus bus and names the engine on it.
type IBusConfig struct {
	// Address overrides bus discovery. Empty means IBUS_ADDRESS, then the
	// address file, then the session bus.
	Address string `toml:"address" json:"address" yaml:"address"`

	// BusName is the well-known name requested when started by IBus.
	BusName string `toml:"bus_name" json:"bus_name" yaml:"bus_name"`

	// EngineName is the engine name in the component XML.
	EngineName string `toml:"engine_name" json:"engine_name" yaml:"engine_name"`

	// ComponentDir is where --install writes the component XML.
	ComponentDir string `toml:"component_dir" json:"component_dir" yaml:"component_dir"`
}

// LookupConfig configures the candidate window.
type LookupConfig struct {
	// PageSize is the number of candidates per page (1-16).
	PageSize int `toml:"page_size" json:"page_size" yaml:"page_size"`
}

// SettingsConfig locates the user preference file.
type SettingsConfig struct {
	Path string `toml:"path" json:"path" yaml:"path"`

	// Watch reloads preferences while idle when the file changes.
	Watch bool `toml:"watch" json:"watch" yaml:"watch"`
}

// HistoryConfig configures the candidate selection history.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// EngineConfig configures the transliteration engine.
type EngineConfig struct {
	// DatabaseDir holds the engine's dictionary data.
	DatabaseDir string `toml:"database_dir" json:"database_dir" yaml:"database_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log output: "stdout", "stderr", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file when Output includes a file.
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of old log files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// Compress determines whether to compress rotated logs.
	Compress bool `toml:"compress" json:"compress" yaml:"compress"`

	// LogText writes typed and committed text to the log. Off by default.
	LogText bool `toml:"log_text" json:"log_text" yaml:"log_text"`

	// CrashDir receives crash reports.
	CrashDir string `toml:"crash_dir" json:"crash_dir" yaml:"crash_dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		IBus: IBusConfig{
			BusName:      "org.freedesktop.IBus.OpenBangla",
			EngineName:   "OpenBangla",
			ComponentDir: ComponentDir(),
		},
		Lookup: LookupConfig{
			PageSize: 10,
		},
		Settings: SettingsConfig{
			Path:  filepath.Join(PlatformConfigDir(), "settings.toml"),
			Watch: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(PlatformDataDir(), "history.db"),
		},
		Engine: EngineConfig{
			DatabaseDir: filepath.Join(PlatformDataDir(), "data"),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   logging.DefaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   true,
			CrashDir:   logging.DefaultCrashDir(),
		},
	}
}

// ConfigPath returns the configuration file in use: the first existing
// config.{toml,json,yaml,yml} under the config directory, or config.toml.
func ConfigPath() string {
	if path := FindConfigFile(); path != "" {
		return path
	}
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// Load reads configuration from path. A missing file yields the defaults.
// The format follows the file extension. Files from older schema versions
// are migrated in memory, and environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the directories the process writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Settings.Path),
		c.Logging.CrashDir,
	}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Variables are prefixed with OPENBANGLA_.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OPENBANGLA_IBUS_ADDRESS"); v != "" {
		c.IBus.Address = v
	}
	if v := os.Getenv("OPENBANGLA_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Lookup.PageSize = n
		}
	}
	if v := os.Getenv("OPENBANGLA_SETTINGS_PATH"); v != "" {
		c.Settings.Path = v
	}
	if v := os.Getenv("OPENBANGLA_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("OPENBANGLA_DATABASE_DIR"); v != "" {
		c.Engine.DatabaseDir = v
	}

	if v := os.Getenv("OPENBANGLA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OPENBANGLA_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("OPENBANGLA_LOG_TEXT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.LogText = b
		}
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// LoggerConfig converts the logging section for logging.New.
func (l LoggingConfig) LoggerConfig(component string) (*logging.Config, error) {
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(l.Format)
	if err != nil {
		return nil, err
	}
	return &logging.Config{
		Level:      level,
		Format:     format,
		Output:     l.Output,
		FilePath:   l.FilePath,
		MaxSize:    int64(l.MaxSizeMB),
		MaxBackups: l.MaxBackups,
		Compress:   l.Compress,
		LogText:    l.LogText,
		Component:  component,
	}, nil
}
