package nominatim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearNominatimEnv сбрасывает переменные окружения клиента на время теста.
func clearNominatimEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NOMINATIM_BASE_URL",
		"NOMINATIM_USER_AGENT",
		"NOMINATIM_EMAIL",
		"NOMINATIM_REQUEST_TIMEOUT",
		"NOMINATIM_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearNominatimEnv(t)
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
		assert.Equal(t, "", cfg.UserAgent)
		assert.Equal(t, "", cfg.Email)
		assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
		assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	})

	t.Run("environment overrides", func(t *testing.T) {
		clearNominatimEnv(t)
		t.Chdir(t.TempDir())

		t.Setenv("NOMINATIM_BASE_URL", "http://localhost:8080/search")
		t.Setenv("NOMINATIM_USER_AGENT", "my-app/1.0")
		t.Setenv("NOMINATIM_EMAIL", "ops@example.com")
		t.Setenv("NOMINATIM_REQUEST_TIMEOUT", "30")
		t.Setenv("NOMINATIM_LOG_LEVEL", "debug")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080/search", cfg.BaseURL)
		assert.Equal(t, "my-app/1.0", cfg.UserAgent)
		assert.Equal(t, "ops@example.com", cfg.Email)
		assert.Equal(t, 30, cfg.RequestTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("reads dotenv file", func(t *testing.T) {
		clearNominatimEnv(t)
		dir := t.TempDir()
		dotenv := "NOMINATIM_BASE_URL=http://localhost:9090/search\nNOMINATIM_USER_AGENT=dotenv-app\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o644))
		t.Chdir(dir)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9090/search", cfg.BaseURL)
		assert.Equal(t, "dotenv-app", cfg.UserAgent)
		assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
	})

	t.Run("environment wins over dotenv file", func(t *testing.T) {
		clearNominatimEnv(t)
		dir := t.TempDir()
		dotenv := "NOMINATIM_USER_AGENT=dotenv-app\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o644))
		t.Chdir(dir)

		t.Setenv("NOMINATIM_USER_AGENT", "env-app")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "env-app", cfg.UserAgent)
	})
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "https endpoint", baseURL: "https://nominatim.openstreetmap.org/search", wantErr: false},
		{name: "http endpoint", baseURL: "http://localhost:8080/search", wantErr: false},
		{name: "missing scheme", baseURL: "nominatim.openstreetmap.org/search", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "missing host", baseURL: "https:///search", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBaseURL(tt.baseURL)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
