package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBackendEnv(t *testing.T) {
	t.Helper()
	for _, k := range append(append([]string{}, URLEnvKeys...), AnonKeyEnvKeys...) {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STAYKEEPER_SESSION_KEY", "")
	t.Setenv("STAYKEEPER_CACHE_PATH", "")
	t.Setenv("STAYKEEPER_LOG_LEVEL", "")
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"cmd"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "staykeeper.db", c.CachePath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, DefaultAppVersion, c.AppVersion)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.SupabaseURL)
	assert.Empty(t, c.SupabaseAnonKey)
}

func TestParseEnv_FirstNonEmptyWins(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantURL string
		wantKey string
	}{
		{
			name:    "vite prefixed preferred",
			env:     map[string]string{"VITE_SUPABASE_URL": "https://vite", "SUPABASE_URL": "https://plain", "VITE_SUPABASE_ANON_KEY": "vk", "SUPABASE_ANON_KEY": "pk"},
			wantURL: "https://vite",
			wantKey: "vk",
		},
		{
			name:    "empty vite falls through",
			env:     map[string]string{"VITE_SUPABASE_URL": "", "SUPABASE_URL": "https://plain", "SUPABASE_ANON_KEY": "pk"},
			wantURL: "https://plain",
			wantKey: "pk",
		},
		{
			name: "nothing set",
			env:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearBackendEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var c Config
			parseEnv(&c)

			assert.Equal(t, tt.wantURL, c.SupabaseURL)
			assert.Equal(t, tt.wantKey, c.SupabaseAnonKey)

			urlPresent, keyPresent := c.Backend()
			assert.Equal(t, tt.wantURL != "", urlPresent)
			assert.Equal(t, tt.wantKey != "", keyPresent)
		})
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "https://x.supabase.co", "-k", "anon", "-d", "postgres://db", "-s", "cache.db",
				"-t", "3", "-u", "https://app/#access_token=t", "-v", "2.1", "-l", "debug"},
			expected: &Config{
				SupabaseURL:     "https://x.supabase.co",
				SupabaseAnonKey: "anon",
				DatabaseDSN:     "postgres://db",
				CachePath:       "cache.db",
				RequestTimeout:  3 * time.Second,
				InitialURL:      "https://app/#access_token=t",
				AppVersion:      "2.1",
				LogLevel:        "debug",
			},
		},
		{
			name:     "unknown flags are filtered",
			args:     []string{"-z", "whatever", "-a", "https://x"},
			expected: &Config{SupabaseURL: "https://x"},
		},
		{
			name:        "bad timeout",
			args:        []string{"-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"supabase_url": "https://json",
		"request_timeout": "7s",
		"app_version": "3.0"
	}`), 0o600))

	withArgs(t, "-c", path)

	c := &Config{}
	c.LoadDefaults()
	c.SupabaseAnonKey = "from-env"
	parseJSON(c)

	assert.Equal(t, "https://json", c.SupabaseURL)
	assert.Equal(t, "from-env", c.SupabaseAnonKey)
	assert.Equal(t, 7*time.Second, c.RequestTimeout)
	assert.Equal(t, "3.0", c.AppVersion)
	assert.Equal(t, "staykeeper.db", c.CachePath)
}

func TestParseJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	withArgs(t, "-config", path)

	require.Panics(t, func() { parseJSON(&Config{}) })
}

func TestParseJSON_MissingFile(t *testing.T) {
	withArgs(t, "-c", filepath.Join(t.TempDir(), "absent.json"))
	require.Panics(t, func() { parseJSON(&Config{}) })
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("SUPABASE_URL", "https://env")
	t.Setenv("SUPABASE_ANON_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"supabase_url":"https://json"}`), 0o600))
	withArgs(t, "-c", path, "-k", "flag-key")

	c := LoadConfig()
	require.NotNil(t, c)

	assert.Equal(t, "https://json", c.SupabaseURL)
	assert.Equal(t, "flag-key", c.SupabaseAnonKey)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
}
