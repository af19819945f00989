package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, RecipientOwner, cfg.NotifyRecipient)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("NOTIFY_RECIPIENT", "actor")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, RecipientActor, cfg.NotifyRecipient)
}

func TestLoadConfig_InvalidInt(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "eighty")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "HTTP_PORT")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		HTTPPort:                0,
		DBDriver:                "oracle",
		LogLevel:                "loud",
		LogFormat:               "xml",
		JWTSecret:               "short",
		JWTExpiry:               time.Hour,
		RateLimitCapacity:       1,
		RateLimitRefillInterval: time.Second,
		UploadMaxSize:           1,
		NotifyRecipient:         "everyone",
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"HTTP_PORT", "DB_DRIVER", "LOG_LEVEL", "LOG_FORMAT", "JWT_SECRET", "NOTIFY_RECIPIENT"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestNewRedisClient_NotConfigured(t *testing.T) {
	assert.Nil(t, NewRedisClient(&Config{}))
}
