package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg := Config{
		APIKey:   "key",
		Username: "listener",
		RepoPath: t.TempDir(),
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestLoadFile_ValidJSON(t *testing.T) {
	content := `{
		"api_key": "key",
		"username": "listener",
		"repo_path": "/srv/profile",
		"readme_file": "PROFILE.md",
		"interval_seconds": 30,
		"timezone": "Asia/Kolkata"
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadFile(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "listener", cfg.Username)
	assert.Equal(t, "/srv/profile", cfg.RepoPath)
	assert.Equal(t, "PROFILE.md", cfg.ReadmeFile)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadFile(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadFile_FileNotFound(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvUsername, "env-user")
	t.Setenv(EnvRepoPath, "/srv/profile")

	cfg := FromEnv()
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "/srv/profile", cfg.RepoPath)
}

func TestMergeWithDefaults(t *testing.T) {
	flags := Config{ReadmeFile: "PROFILE.md"}
	env := Config{APIKey: "env-key", Username: "env-user", ReadmeFile: "README.md"}

	merged := flags.MergeWithDefaults(env)
	assert.Equal(t, "env-key", merged.APIKey)
	assert.Equal(t, "env-user", merged.Username)
	assert.Equal(t, "PROFILE.md", merged.ReadmeFile, "flag value must win over env")
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultRepoPath, cfg.RepoPath)
	assert.Equal(t, DefaultReadmeFile, cfg.ReadmeFile)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultTimezone, cfg.Timezone)
	assert.Empty(t, cfg.APIKey, "defaults must not invent identity values")
}

func TestValidate_MissingIdentity(t *testing.T) {
	cfg := validConfig(t)
	cfg.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIKey)
}

func TestValidate_MissingUsername(t *testing.T) {
	cfg := validConfig(t)
	cfg.Username = ""

	assert.Error(t, cfg.Validate())
}

func TestValidate_BadTimezone(t *testing.T) {
	cfg := validConfig(t)
	cfg.Timezone = "Not/AZone"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestValidate_RepoPathMustBeDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.RepoPath = filepath.Join(t.TempDir(), "nope")

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repo path")
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.Validate())
}

func TestReadmePath(t *testing.T) {
	cfg := Config{RepoPath: "/srv/profile", ReadmeFile: "README.md"}
	assert.Equal(t, filepath.Join("/srv/profile", "README.md"), cfg.ReadmePath())
}
