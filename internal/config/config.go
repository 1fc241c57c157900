package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultRefreshInterval      = 3 * time.Second
	DefaultSleepSlice           = 500 * time.Millisecond
	DefaultFetchTimeout         = 20 * time.Second
	DefaultPipelineLimit        = 20
	DefaultMaxConcurrentFetches = 4
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "json"
)

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pipeman"), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Config is the root configuration struct
type Config struct {
	GitLab    GitLabConfig    `json:"gitlab,omitempty"`
	Dashboard DashboardConfig `json:"dashboard,omitempty"`
	Prompt    PromptConfig    `json:"prompt,omitempty"`
	Log       LogConfig       `json:"log,omitempty"`
}

// GitLabConfig holds the connection to the CI/CD service
type GitLabConfig struct {
	Host  string `json:"host,omitempty" envconfig:"GITLAB_HOST"`
	Token string `json:"token,omitempty" envconfig:"GITLAB_TOKEN"`
}

// DashboardConfig holds refresh loop and rendering settings
type DashboardConfig struct {
	RefreshInterval      time.Duration `json:"refresh_interval,omitempty" envconfig:"PIPEMAN_REFRESH_INTERVAL"`
	SleepSlice           time.Duration `json:"sleep_slice,omitempty" envconfig:"PIPEMAN_SLEEP_SLICE"`
	FetchTimeout         time.Duration `json:"fetch_timeout,omitempty" envconfig:"PIPEMAN_FETCH_TIMEOUT"`
	PipelineLimit        int           `json:"pipeline_limit,omitempty" envconfig:"PIPEMAN_PIPELINE_LIMIT"`
	MaxConcurrentFetches int           `json:"max_concurrent_fetches,omitempty" envconfig:"PIPEMAN_MAX_CONCURRENT_FETCHES"`
	StatusOrder          []string      `json:"status_order,omitempty" envconfig:"PIPEMAN_STATUS_ORDER"`
	Avatars              *bool         `json:"avatars,omitempty" envconfig:"PIPEMAN_AVATARS"`
}

// PromptConfig holds settings of the shell prompt segment
type PromptConfig struct {
	Format string `json:"format,omitempty" envconfig:"PIPEMAN_PROMPT_FORMAT"` // text/template
}

// LogConfig holds logging settings. The dashboard owns the terminal, so logs
// always go to a file.
type LogConfig struct {
	File   string `json:"file,omitempty" envconfig:"PIPEMAN_LOG_FILE"`
	Level  string `json:"level,omitempty" envconfig:"PIPEMAN_LOG_LEVEL"`
	Format string `json:"format,omitempty" envconfig:"PIPEMAN_LOG_FORMAT"` // json, console
}

// AvatarsEnabled reports whether author avatars should be fetched
func (d DashboardConfig) AvatarsEnabled() bool {
	return d.Avatars == nil || *d.Avatars
}

// Load reads config from file, .env and applies environment variable overrides
func Load() (*Config, error) {
	cfg, err := LoadFromFile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if cfg == nil {
		cfg = &Config{}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &apperr.ConfigurationError{Key: ".env", Reason: err.Error()}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, &apperr.ConfigurationError{Reason: err.Error()}
	}

	cfg.applyDefaults()

	return cfg, nil
}

// LoadFromFile reads config from file only (no env overrides)
func LoadFromFile() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &apperr.ConfigurationError{Key: path, Reason: err.Error()}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := &c.Dashboard
	if d.RefreshInterval <= 0 {
		d.RefreshInterval = DefaultRefreshInterval
	}
	if d.SleepSlice <= 0 {
		d.SleepSlice = DefaultSleepSlice
	}
	if d.FetchTimeout <= 0 {
		d.FetchTimeout = DefaultFetchTimeout
	}
	if d.PipelineLimit <= 0 {
		d.PipelineLimit = DefaultPipelineLimit
	}
	if d.MaxConcurrentFetches <= 0 {
		d.MaxConcurrentFetches = DefaultMaxConcurrentFetches
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.File == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Log.File = filepath.Join(dir, "pipeman.log")
		}
	}
}

// RequireGitLab validates that GitLab config is present
func (c *Config) RequireGitLab() error {
	if c.GitLab.Host == "" {
		return &apperr.ConfigurationError{Key: "GITLAB_HOST", Reason: "not configured, set it or add gitlab.host to ~/.pipeman/config.json"}
	}
	if c.GitLab.Token == "" {
		return &apperr.ConfigurationError{Key: "GITLAB_TOKEN", Reason: "not configured, set it or add gitlab.token to ~/.pipeman/config.json"}
	}
	return nil
}
