package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, "config")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.EngineAddr)
	require.Equal(t, "tcp", cfg.Transport)
	require.Equal(t, 8080, cfg.WSPort)
}

func TestLoadCLIOverridesDefaults(t *testing.T) {
	cfg, err := Load([]string{"-engine-addr", "10.0.0.1:9001", "-ws-port", "9090"}, "config")
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1:9001", cfg.EngineAddr)
	require.Equal(t, 9090, cfg.WSPort)
}

func TestLoadEnvOverridesFileButCLIWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"engineAddr":"file:1111","wsPort":1111}`), 0o644))

	t.Setenv("ENGINE_ADDR", "env:2222")

	cfg, err := Load([]string{"-config", path}, "config")
	require.NoError(t, err)
	require.Equal(t, "env:2222", cfg.EngineAddr, "env should win over file")
	require.Equal(t, 1111, cfg.WSPort, "file value survives when env/CLI don't set it")

	cfg, err = Load([]string{"-config", path, "-engine-addr", "cli:3333"}, "config")
	require.NoError(t, err)
	require.Equal(t, "cli:3333", cfg.EngineAddr, "CLI should win over env and file")
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	_, err := Load([]string{"-transport", "carrier-pigeon"}, "config")
	require.Error(t, err)
}

func TestLoadRejectsMulticastWithoutGroup(t *testing.T) {
	_, err := Load([]string{"-transport", "multicast"}, "config")
	require.Error(t, err)
}

func TestFilterFlagSplitsAndTrims(t *testing.T) {
	cfg, err := Load([]string{"-filter", "trade, ack , top-of-book"}, "config")
	require.NoError(t, err)
	require.Equal(t, []string{"trade", "ack", "top-of-book"}, cfg.Filter)
}
