package config

import (
	"os"
	"path/filepath"
)

// PlatformConfigDir returns $XDG_CONFIG_HOME/openbangla, or the
// OPENBANGLA_CONFIG_DIR override.
func PlatformConfigDir() string {
	if dir := os.Getenv("OPENBANGLA_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "openbangla")
}

// PlatformDataDir returns $XDG_DATA_HOME/openbangla, or the
// OPENBANGLA_DATA_DIR override.
func PlatformDataDir() string {
	if dir := os.Getenv("OPENBANGLA_DATA_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "openbangla")
}

// ComponentDir returns the per-user IBus component directory.
func ComponentDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "ibus", "component")
}

// xdgDir returns the value of env, or fallback under the home directory.
func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, fallback)
}

// SupportedConfigFormats returns the list of supported config file formats.
func SupportedConfigFormats() []string {
	return []string{
		"toml",
		"json",
		"yaml",
		"yml",
	}
}

// FindConfigFile searches the config directory for config.<ext> in
// SupportedConfigFormats order. Returns "" when none exists.
func FindConfigFile() string {
	dir := PlatformConfigDir()
	for _, ext := range SupportedConfigFormats() {
		path := filepath.Join(dir, "config."+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
