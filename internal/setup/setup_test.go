package setup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), BinaryName)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

func TestInstallPreservesOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "theme": "dark",
  "mcpServers": {"other": {"command": "/bin/other"}}
}`), 0644))

	binary := fakeBinary(t)
	entry, err := Install(path, Options{BinaryPath: binary, ConfigFile: "/etc/symptom-analyzer/config.yaml", DataDir: "/var/lib/sa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mcp", "--config", "/etc/symptom-analyzer/config.yaml"}, entry.Args)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `"dark"`, string(raw["theme"]))

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.MCPServers, "other")
	assert.Equal(t, binary, cfg.MCPServers[DefaultServerName].Command)
	assert.Equal(t, "/var/lib/sa", cfg.MCPServers[DefaultServerName].Env["SYMPTOM_ANALYZER_DATA_DIR"])
}

func TestStatusAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	status, err := GetStatus(path, "")
	require.NoError(t, err)
	assert.False(t, status.Registered)
	assert.Len(t, status.Issues, 1)

	binary := fakeBinary(t)
	_, err = Install(path, Options{BinaryPath: binary})
	require.NoError(t, err)

	status, err = GetStatus(path, "")
	require.NoError(t, err)
	assert.True(t, status.Registered)
	assert.Equal(t, binary, status.ServerPath)
	assert.Empty(t, status.Issues)

	require.NoError(t, os.Remove(binary))
	status, err = GetStatus(path, "")
	require.NoError(t, err)
	assert.Contains(t, status.Issues[0], "not found")

	removed, err := Remove(path, "")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = Remove(path, "")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLoadClientConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))
	_, err := LoadClientConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestDesktopConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("APPDATA", "/tmp/appdata")
	path, err := DesktopConfigPath()
	require.NoError(t, err)
	assert.Equal(t, desktopConfigFile, filepath.Base(path))
}
