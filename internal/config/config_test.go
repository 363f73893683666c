package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.RunAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "shortly_session", cfg.SessionCookieName)
	assert.Equal(t, 365*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 6, cfg.ShortCodeLength)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:3000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("SHORT_CODE_LENGTH", "8")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "localhost:3000", cfg.RunAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 8, cfg.ShortCodeLength)
}

func TestValidation(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "bad listen address", key: "SERVER_ADDRESS", value: "not-an-address"},
		{name: "bad signing key", key: "SESSION_SIGNING_SECRET_KEY", value: "not base64!"},
		{name: "code length too small", key: "SHORT_CODE_LENGTH", value: "2"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testCase.key, testCase.value)

			_, err := New(WithDisableFlagsParsing(true))
			assert.Error(t, err)
		})
	}
}
