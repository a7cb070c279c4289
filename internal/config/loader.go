package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Loader loads and validates one configuration file and remembers what
// migration, if any, was applied to it.
type Loader struct {
	path      string
	config    *Config
	migration *MigrationResult
	mu        sync.RWMutex
}

// NewLoader creates a new configuration loader. An empty path selects
// ConfigPath().
func NewLoader(path string) *Loader {
	if path == "" {
		path = ConfigPath()
	}
	return &Loader{path: path}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load reads, migrates, overrides and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg, result, err := loadAndMigrate(l.path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	l.config = cfg
	l.migration = result
	return cfg, nil
}

// Config returns the last loaded configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Migration returns the migration applied by the last Load, or nil.
func (l *Loader) Migration() *MigrationResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.migration
}

func loadConfigFromFile(path string) (*Config, error) {
	cfg, _, err := loadAndMigrate(path)
	return cfg, err
}

// loadAndMigrate reads path, decodes it by extension and upgrades files
// written for an older schema.
func loadAndMigrate(path string) (*Config, *MigrationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil, nil
		}
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	format := formatForPath(path)
	if format == "" {
		if format, err = detectFormat(data); err != nil {
			return nil, nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := decode(format, data, cfg); err != nil {
		return nil, nil, err
	}
	if cfg.Version >= Version {
		return cfg, nil, nil
	}

	raw := make(map[string]interface{})
	if err := decode(format, data, &raw); err != nil {
		return nil, nil, err
	}
	result, err := MigrateConfig(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}

	cfg = DefaultConfig()
	if err := fromRaw(raw, cfg); err != nil {
		return nil, nil, fmt.Errorf("apply migrated config: %w", err)
	}
	return cfg, result, nil
}

// formatForPath maps a file extension to a format name, or "".
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

func decode(format string, data []byte, v interface{}) error {
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), v); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown config format %q", format)
	}
	return nil
}

// detectFormat tries TOML, then JSON, then YAML.
func detectFormat(data []byte) (string, error) {
	var probe map[string]interface{}
	if _, err := toml.Decode(string(data), &probe); err == nil {
		return "toml", nil
	}
	if err := json.Unmarshal(data, &probe); err == nil {
		return "json", nil
	}
	if err := yaml.Unmarshal(data, &probe); err == nil {
		return "yaml", nil
	}
	return "", fmt.Errorf("unable to parse config file (tried TOML, JSON, YAML)")
}

// fromRaw overlays a generic key tree onto cfg through the JSON tags.
func fromRaw(raw map[string]interface{}, cfg *Config) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), cfg)
}

// LoadOrCreate loads the configuration from path, writing the defaults
// there first when the file does not exist. The boolean reports creation.
func LoadOrCreate(path string) (*Config, bool, error) {
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, false, fmt.Errorf("create default config: %w", err)
		}
		return cfg, true, nil
	}

	cfg, err := NewLoader(path).Load()
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}
