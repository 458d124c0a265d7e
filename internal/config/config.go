// Package config provides configuration loading and validation for the CLI.
// Values come from the environment, an optional JSON config file, and flags;
// the merged result is built once at startup and passed into the components
// that need it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default values applied after merging all sources.
const (
	DefaultRepoPath   = "."
	DefaultReadmeFile = "README.md"
	DefaultInterval   = 60 * time.Second
	DefaultTimezone   = "Local"
)

// Environment variable names. API key and username are the required
// identity values; the rest are optional overrides.
const (
	EnvAPIKey   = "LASTFM_API_KEY"
	EnvUsername = "LASTFM_USERNAME"
	EnvRepoPath = "REPO_PATH"
)

// Config is the runtime configuration. All fields can also be set from a
// JSON config file; flags override file values, file values override env.
type Config struct {
	APIKey   string `json:"api_key,omitempty" validate:"required"`
	Username string `json:"username,omitempty" validate:"required"`

	// RepoPath is the local git repository holding the document.
	RepoPath string `json:"repo_path,omitempty"`
	// ReadmeFile is the document's repo-relative file name.
	ReadmeFile string `json:"readme_file,omitempty"`
	// Interval is the delay between poll cycle starts.
	Interval time.Duration `json:"-"`
	// IntervalSeconds is the JSON-facing form of Interval.
	IntervalSeconds int `json:"interval_seconds,omitempty"`
	// Timezone is the IANA zone used for rendered timestamps.
	Timezone string `json:"timezone,omitempty"`
}

// FromEnv builds a Config from environment variables only.
func FromEnv() Config {
	return Config{
		APIKey:   os.Getenv(EnvAPIKey),
		Username: os.Getenv(EnvUsername),
		RepoPath: os.Getenv(EnvRepoPath),
	}
}

// LoadFile loads configuration from a JSON file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if cfg.IntervalSeconds > 0 {
		cfg.Interval = time.Duration(cfg.IntervalSeconds) * time.Second
	}
	return &cfg, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Callers chain this from highest to lowest precedence.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Username == "" {
		result.Username = defaults.Username
	}
	if result.RepoPath == "" {
		result.RepoPath = defaults.RepoPath
	}
	if result.ReadmeFile == "" {
		result.ReadmeFile = defaults.ReadmeFile
	}
	if result.Interval == 0 {
		result.Interval = defaults.Interval
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}

	return result
}

// ApplyDefaults fills every still-empty optional field with its default.
// Required identity fields are left alone for Validate to catch.
func (c *Config) ApplyDefaults() {
	if c.RepoPath == "" {
		c.RepoPath = DefaultRepoPath
	}
	if c.ReadmeFile == "" {
		c.ReadmeFile = DefaultReadmeFile
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
}

// Validate checks that the configuration is complete and usable. A missing
// API key or username is a fatal startup condition.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w (set %s and %s)", err, EnvAPIKey, EnvUsername)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("config error: interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config error: unknown timezone %q: %w", c.Timezone, err)
	}
	if info, err := os.Stat(c.RepoPath); err != nil || !info.IsDir() {
		return fmt.Errorf("config error: repo path is not a directory: %s", c.RepoPath)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// ReadmePath is the full path of the document inside the repository.
func (c *Config) ReadmePath() string {
	return filepath.Join(c.RepoPath, c.ReadmeFile)
}
