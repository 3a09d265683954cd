package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("PE_MYSQL_DSN", "prospect:secret@tcp(db:3306)/prospectedge")
	t.Setenv("PE_COOKIE_AUTH_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("PE_SKIP32_WATCHER_KEY", testSkip32Key)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PE_HTTP_PORT", "")
	t.Setenv("PE_CACHE_TTL", "")
	t.Setenv("PE_DEBUG", "")

	config, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, 3001, config.HTTPPort)
	assert.Equal(t, 5*time.Minute, config.CacheTTL)
	assert.False(t, config.Debug)
	assert.Equal(t, "prospect:secret@tcp(db:3306)/prospectedge?parseTime=true", config.MySQLDSN)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PE_MYSQL_DSN", "prospect:secret@tcp(db:3306)/prospectedge?charset=utf8mb4&parseTime=true")
	t.Setenv("PE_HTTP_PORT", "8080")
	t.Setenv("PE_CACHE_TTL", "0")
	t.Setenv("PE_DEBUG", "true")

	config, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, 8080, config.HTTPPort)
	assert.Zero(t, config.CacheTTL)
	assert.True(t, config.Debug)
	assert.Equal(t, "prospect:secret@tcp(db:3306)/prospectedge?charset=utf8mb4&parseTime=true", config.MySQLDSN)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"no dsn", "PE_MYSQL_DSN", ""},
		{"no cookie key", "PE_COOKIE_AUTH_KEY", ""},
		{"short skip32 key", "PE_SKIP32_WATCHER_KEY", "short"},
		{"bad port", "PE_HTTP_PORT", "http"},
		{"bad ttl", "PE_CACHE_TTL", "5m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := loadConfig()

			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ExplicitEnvFile(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{"PE_HTTP_PORT", "PE_AWS_REGION", "PE_CSP_BUCKET", "PE_SESSION_TABLE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	envFile := filepath.Join(t.TempDir(), "prospectedge.env")
	err := os.WriteFile(envFile, []byte("PE_HTTP_PORT=8181\nPE_CSP_BUCKET=prospectedge-reports\n"), 0o600)
	require.NoError(t, err)

	config, err := loadConfig(envFile)

	require.NoError(t, err)
	assert.Equal(t, 8181, config.HTTPPort)
	assert.Equal(t, "prospectedge-reports", config.CSPBucket)
	assert.Equal(t, "us-east-1", config.AWSRegion)
	assert.True(t, config.UsesAWS())
}

func TestLoadConfig_MissingExplicitEnvFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorContains(t, err, "failed to load env files")
}
