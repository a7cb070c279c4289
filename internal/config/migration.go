package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MigrationResult contains the result of a configuration migration.
type MigrationResult struct {
	FromVersion int
	ToVersion   int
	Changes     []string
	Warnings    []string
}

// v1 keys that moved in v2, dotted old path to dotted new path.
var v1Renames = []struct{ from, to string }{
	{"candidate.page_size", "lookup.page_size"},
	{"ibus.component_path", "ibus.component_dir"},
	{"settings.file", "settings.path"},
	{"history.database", "history.path"},
	{"engine.data_dir", "engine.database_dir"},
	{"logging.max_size", "logging.max_size_mb"},
}

// MigrateConfig upgrades a decoded configuration tree in place to Version.
// It returns nil when the tree is already current.
func MigrateConfig(raw map[string]interface{}) (*MigrationResult, error) {
	from, err := rawVersion(raw)
	if err != nil {
		return nil, err
	}
	if from >= Version {
		return nil, nil
	}

	result := &MigrationResult{FromVersion: from, ToVersion: Version}
	for v := from; v < Version; v++ {
		switch v {
		case 1:
			changes, warnings := migrateV1ToV2(raw)
			result.Changes = append(result.Changes, changes...)
			result.Warnings = append(result.Warnings, warnings...)
		default:
			return result, fmt.Errorf("no migration from v%d", v)
		}
	}
	raw["version"] = Version
	return result, nil
}

func rawVersion(raw map[string]interface{}) (int, error) {
	switch v := raw["version"].(type) {
	case nil:
		return Version, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("version has type %T", v)
	}
}

func migrateV1ToV2(raw map[string]interface{}) (changes []string, warnings []string) {
	for _, r := range v1Renames {
		val, ok := takeKey(raw, r.from)
		if !ok {
			continue
		}
		if _, exists := lookupKey(raw, r.to); exists {
			warnings = append(warnings, fmt.Sprintf("%s ignored, %s already set", r.from, r.to))
			continue
		}
		putKey(raw, r.to, val)
		changes = append(changes, fmt.Sprintf("renamed %s to %s", r.from, r.to))
	}
	// the candidate table only ever held page_size
	if t, ok := raw["candidate"].(map[string]interface{}); ok && len(t) == 0 {
		delete(raw, "candidate")
	}
	return changes, warnings
}

func lookupKey(raw map[string]interface{}, dotted string) (interface{}, bool) {
	parts := strings.Split(dotted, ".")
	m := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			return nil, false
		}
		m = next
	}
	v, ok := m[parts[len(parts)-1]]
	return v, ok
}

func takeKey(raw map[string]interface{}, dotted string) (interface{}, bool) {
	parts := strings.Split(dotted, ".")
	m := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			return nil, false
		}
		m = next
	}
	leaf := parts[len(parts)-1]
	v, ok := m[leaf]
	delete(m, leaf)
	return v, ok
}

func putKey(raw map[string]interface{}, dotted string, val interface{}) {
	parts := strings.Split(dotted, ".")
	m := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

// SaveConfig writes cfg to path in the format its extension names, TOML
// when the extension is unknown.
func SaveConfig(cfg *Config, path string) error {
	var data []byte
	var err error

	switch formatForPath(path) {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = encodeToTOML(cfg)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func encodeToTOML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# openbangla-ibus configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
