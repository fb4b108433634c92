package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")
	base := Default("/data")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
	assert.Equal(t, filepath.Join("/data", "levelup.db"), cfg.DBPath)
}

func TestLoadFileMergesYAML(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nexport_dir: /tmp/out\n"), 0o644))

	cfg, err := LoadFile(path, Default("/data"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, filepath.Join("/data", "levelup.db"), cfg.DBPath)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /from/file.db\nlog_level: warn\n"), 0o644))
	t.Setenv(EnvDB, "/from/env.db")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := LoadFile(path, Default("/data"))
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "loud")

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), Default("/data"))
	assert.ErrorContains(t, err, "invalid log_level")
}

func TestLogLevelAliasesAccepted(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warning\n"), 0o644))

	cfg, err := LoadFile(path, Default("/data"))
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.LogLevel)

	cfg.LogLevel = " INFO "
	assert.NoError(t, cfg.Validate())
}

func TestMalformedYAML(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [unterminated\n"), 0o644))

	_, err := LoadFile(path, Default("/data"))
	assert.ErrorContains(t, err, "parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Config{DBPath: "/x/levelup.db", LogLevel: "warn", LogPath: "/x/levelup.log", ExportDir: "/x/exports"}
	require.NoError(t, want.Save(path))

	got, err := LoadFile(path, Default("/data"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes.db"), expandHome("~/notes.db"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}
