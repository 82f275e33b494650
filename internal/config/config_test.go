package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_PATH", "LISTEN_ADDR", "JWT_SECRET", "LOG_LEVEL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS", "BOOTSTRAP_ADMIN",
		"AI_SERVICE_TYPE", "AI_API_KEY", "DOUBAO_API_KEY", "ARK_API_KEY",
		"AI_API_BASE", "AI_MODEL", "AI_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "countystats.sqlite", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.Warnings, "insecure defaults must warn")
	assert.False(t, cfg.AI.Configured())
}

func TestLoadFromEnv_AIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOUBAO_API_KEY", "doubao-key")
	t.Setenv("ARK_API_KEY", "ark-key")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "doubao-key", cfg.AI.APIKey)

	t.Setenv("AI_API_KEY", "explicit-key")
	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", cfg.AI.APIKey, "AI_API_KEY wins over provider-specific names")
}

func TestLoadFromEnv_ServiceTypeDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ServiceDoubao, cfg.AI.ServiceType)
	assert.Equal(t, "https://ark.cn-beijing.volces.com/api/v3", cfg.AI.BaseURL)
	assert.Equal(t, "doubao-pro-32k", cfg.AI.Model)

	t.Setenv("AI_SERVICE_TYPE", "openai")
	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.BaseURL)
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Model)
}

func TestLoadFromEnv_ExplicitAISettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_SERVICE_TYPE", "custom")
	t.Setenv("AI_API_BASE", "https://llm.internal/v1")
	t.Setenv("AI_MODEL", "my-model")
	t.Setenv("AI_TIMEOUT", "10s")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://llm.internal/v1", cfg.AI.BaseURL)
	assert.Equal(t, "my-model", cfg.AI.Model)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
}

func TestLoadFromEnv_BadTimeoutKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_TIMEOUT", "soon")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "info": "INFO", "warn": "WARN", "error": "ERROR", "bogus": "INFO"}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel().String(), "level %q", in)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nDB_PATH=/tmp/portal.sqlite\nJWT_SECRET=\"quoted-secret\"\n\nBROKEN LINE\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "/tmp/portal.sqlite", os.Getenv("DB_PATH"))
	assert.Equal(t, "quoted-secret", os.Getenv("JWT_SECRET"))

	// Existing environment wins over the file.
	t.Setenv("DB_PATH", "preset")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "preset", os.Getenv("DB_PATH"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
