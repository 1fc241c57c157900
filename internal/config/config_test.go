package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and runs from an empty working directory
// so neither a real config file nor a .env leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"GITLAB_HOST", "GITLAB_TOKEN",
		"PIPEMAN_REFRESH_INTERVAL", "PIPEMAN_SLEEP_SLICE", "PIPEMAN_FETCH_TIMEOUT",
		"PIPEMAN_PIPELINE_LIMIT", "PIPEMAN_MAX_CONCURRENT_FETCHES", "PIPEMAN_STATUS_ORDER",
		"PIPEMAN_AVATARS", "PIPEMAN_PROMPT_FORMAT", "PIPEMAN_LOG_FILE", "PIPEMAN_LOG_LEVEL", "PIPEMAN_LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultRefreshInterval, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, DefaultSleepSlice, cfg.Dashboard.SleepSlice)
	assert.Equal(t, DefaultFetchTimeout, cfg.Dashboard.FetchTimeout)
	assert.Equal(t, DefaultPipelineLimit, cfg.Dashboard.PipelineLimit)
	assert.Equal(t, DefaultMaxConcurrentFetches, cfg.Dashboard.MaxConcurrentFetches)
	assert.True(t, cfg.Dashboard.AvatarsEnabled())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(home, ".pipeman", "pipeman.log"), cfg.Log.File)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GITLAB_HOST", "https://gitlab.example.com")
	t.Setenv("GITLAB_TOKEN", "glpat-secret")
	t.Setenv("PIPEMAN_REFRESH_INTERVAL", "10s")
	t.Setenv("PIPEMAN_STATUS_ORDER", "pending,running,failed")
	t.Setenv("PIPEMAN_AVATARS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.example.com", cfg.GitLab.Host)
	assert.Equal(t, "glpat-secret", cfg.GitLab.Token)
	assert.Equal(t, 10*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, []string{"pending", "running", "failed"}, cfg.Dashboard.StatusOrder)
	assert.False(t, cfg.Dashboard.AvatarsEnabled())
	assert.NoError(t, cfg.RequireGitLab())
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)

	path, err := ConfigPath()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "gitlab": {"host": "https://from-file.example.com", "token": "file-token"},
  "dashboard": {"pipeline_limit": 5}
}`), 0600))
	t.Setenv("GITLAB_TOKEN", "env-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://from-file.example.com", cfg.GitLab.Host)
	assert.Equal(t, "env-token", cfg.GitLab.Token)
	assert.Equal(t, 5, cfg.Dashboard.PipelineLimit)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("GITLAB_HOST=https://dotenv.example.com\nGITLAB_TOKEN=dotenv\n"), 0600))
	t.Setenv("GITLAB_TOKEN", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dotenv.example.com", cfg.GitLab.Host)
	assert.Equal(t, "from-env", cfg.GitLab.Token)
}

func TestRequireGitLab(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantKey string
	}{
		{"missing host", Config{GitLab: GitLabConfig{Token: "t"}}, "GITLAB_HOST"},
		{"missing token", Config{GitLab: GitLabConfig{Host: "https://h"}}, "GITLAB_TOKEN"},
		{"missing both", Config{}, "GITLAB_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireGitLab()
			var cfgErr *apperr.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
			assert.True(t, apperr.IsFatal(err))
		})
	}
}
