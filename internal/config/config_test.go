package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database: /var/lib/fimbl/ledger.db
jobs: 4
tolerant: true
follow_symlinks: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/fimbl/ledger.db", cfg.Database)
	assert.Equal(t, 4, cfg.Jobs)
	assert.True(t, cfg.Tolerant)
	assert.True(t, cfg.FollowSymlinks)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "jobs: 2\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, def.Database, cfg.Database)
	assert.False(t, cfg.Tolerant)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "tolerent: true\n")

	_, err := Load(path)
	assert.Error(t, err, "typo'd field names must be rejected")
}

func TestLoad_RejectsNegativeJobs(t *testing.T) {
	path := writeConfig(t, "jobs: -1\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsEmptyDatabase(t *testing.T) {
	path := writeConfig(t, `database: ""` + "\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDefault_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadDefault()
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoadDefault_ReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, "fimbl")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("tolerant: true\n"), 0o644))

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.True(t, cfg.Tolerant)
}
