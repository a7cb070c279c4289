//go:build linux

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openbangla/internal/logging"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("OPENBANGLA_CONFIG_DIR", "")
	t.Setenv("OPENBANGLA_DATA_DIR", "")
	t.Setenv("OPENBANGLA_SETTINGS_PATH", "")
	t.Setenv("OPENBANGLA_HISTORY_PATH", "")
	return dir
}

func TestCheckReportsMissingComponent(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	err := check(context.Background(), &out, options{})
	require.ErrorIs(t, err, errUnhealthy)
	assert.Contains(t, out.String(), "openbangla.xml is missing")
	assert.Contains(t, out.String(), "overall: unhealthy")
}

func TestCheckInstalled(t *testing.T) {
	dir := isolate(t)
	componentDir := filepath.Join(dir, "data", "ibus", "component")
	require.NoError(t, os.MkdirAll(componentDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(componentDir, "openbangla.xml"), []byte("<component/>"), 0600))

	var out bytes.Buffer
	require.NoError(t, check(context.Background(), &out, options{}))
	assert.Contains(t, out.String(), "builtin layout")
	assert.NotContains(t, out.String(), "overall: unhealthy")
}

func TestCheckBrokenLayout(t *testing.T) {
	dir := isolate(t)
	componentDir := filepath.Join(dir, "data", "ibus", "component")
	require.NoError(t, os.MkdirAll(componentDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(componentDir, "openbangla.xml"), []byte("<component/>"), 0600))

	layoutPath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(layoutPath, []byte("{"), 0600))
	settingsDir := filepath.Join(dir, "config", "openbangla")
	require.NoError(t, os.MkdirAll(settingsDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, "settings.toml"),
		[]byte("[layout]\npath = \""+layoutPath+"\"\n"), 0600))

	var out bytes.Buffer
	err := check(context.Background(), &out, options{})
	require.ErrorIs(t, err, errUnhealthy)
	assert.Contains(t, out.String(), "layout:")
}

func TestRecentCrashes(t *testing.T) {
	dir := t.TempDir()
	msg, err := recentCrashes(dir, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "no recent crash reports", msg)

	logging.NewCrashHandler(&logging.CrashHandlerConfig{CrashDir: dir}).HandlePanic("boom", nil)
	_, err = recentCrashes(dir, time.Hour)
	assert.EqualError(t, err, "1 crash reports")
}
