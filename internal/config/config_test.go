package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/members/internal/credential"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "members.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "wanghong.db", cfg.Database)
	assert.Equal(t, "pass.json", cfg.Credentials)
	assert.Equal(t, "members.txt", cfg.ImportFile)
	assert.Equal(t, credential.ModePlain, cfg.PasswordHash)
	assert.True(t, cfg.ResetOnStart)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
database: /var/lib/members/members.db
password_hash: md5
reset_on_start: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/members/members.db", cfg.Database)
	assert.Equal(t, credential.ModeMD5, cfg.PasswordHash)
	assert.False(t, cfg.ResetOnStart)
	assert.Equal(t, "pass.json", cfg.Credentials)
	assert.Equal(t, "members.txt", cfg.ImportFile)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "databse: typo.db\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_InvalidPasswordHash(t *testing.T) {
	path := writeConfig(t, "password_hash: sha1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid password mode")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate_RequiresPaths(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"database", func(c *Config) { c.Database = "" }, "database is required"},
		{"credentials", func(c *Config) { c.Credentials = "" }, "credentials is required"},
		{"import file", func(c *Config) { c.ImportFile = "" }, "import_file is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
