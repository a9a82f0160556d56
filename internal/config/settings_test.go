package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen_addr: \":9090\"\ndata_dir: /var/lib/toolcheck\nlog_mode: prod\n",
	), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", s.ListenAddr)
	assert.Equal(t, "/var/lib/toolcheck", s.DataDir)
	assert.Equal(t, "prod", s.LogMode)
	// Unset media dir derives from the data dir.
	assert.Equal(t, filepath.Join("/var/lib/toolcheck", "media"), s.MediaDir)
	assert.Equal(t, filepath.Join("/var/lib/toolcheck", "toolcheck.db"), s.DatabasePath())
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	s := Settings{
		DataDir:  filepath.Join(dir, "data"),
		MediaDir: filepath.Join(dir, "data", "media"),
	}
	require.NoError(t, s.EnsureDirs())

	info, err := os.Stat(s.MediaDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
