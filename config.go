package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort            int
	MySQLDSN            string
	RedisAddr           string
	CacheTTL            time.Duration
	CookieAuthKey       string
	CookieEncryptionKey string
	CookieDomain        string
	Skip32WatcherKey    string
	AWSRegion           string
	CSPBucket           string
	SessionTable        string
	Debug               bool
}

// UsesAWS reports whether any component needs an AWS session
func (c Config) UsesAWS() bool {
	return c.CSPBucket != "" || c.SessionTable != ""
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// loadConfig reads configuration from the environment, after loading
// envFiles. With no envFiles it loads ./.env if there is one.
func loadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		// a missing .env is fine, the environment may already be set
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("failed to load env files: %w", err)
	}

	config := Config{
		MySQLDSN:            os.Getenv("PE_MYSQL_DSN"),
		RedisAddr:           os.Getenv("PE_REDIS_ADDR"),
		CookieAuthKey:       os.Getenv("PE_COOKIE_AUTH_KEY"),
		CookieEncryptionKey: os.Getenv("PE_COOKIE_ENCRYPTION_KEY"),
		CookieDomain:        os.Getenv("PE_COOKIE_DOMAIN"),
		Skip32WatcherKey:    os.Getenv("PE_SKIP32_WATCHER_KEY"),
		AWSRegion:           getenv("PE_AWS_REGION", "us-east-1"),
		CSPBucket:           os.Getenv("PE_CSP_BUCKET"),
		SessionTable:        os.Getenv("PE_SESSION_TABLE"),
	}

	var err error
	config.HTTPPort, err = strconv.Atoi(getenv("PE_HTTP_PORT", "3001"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid PE_HTTP_PORT: %w", err)
	}

	ttlSeconds, err := strconv.Atoi(getenv("PE_CACHE_TTL", "300"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid PE_CACHE_TTL: %w", err)
	}
	config.CacheTTL = time.Duration(ttlSeconds) * time.Second

	config.Debug, err = strconv.ParseBool(getenv("PE_DEBUG", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid PE_DEBUG: %w", err)
	}

	if config.MySQLDSN == "" {
		return Config{}, fmt.Errorf("PE_MYSQL_DSN is not set")
	}
	if !strings.Contains(config.MySQLDSN, "parseTime=") {
		sep := "?"
		if strings.Contains(config.MySQLDSN, "?") {
			sep = "&"
		}
		config.MySQLDSN += sep + "parseTime=true"
	}
	if config.CookieAuthKey == "" {
		return Config{}, fmt.Errorf("PE_COOKIE_AUTH_KEY is not set")
	}
	if len(config.Skip32WatcherKey) != 10 {
		return Config{}, fmt.Errorf("PE_SKIP32_WATCHER_KEY must be 10 bytes, got %d", len(config.Skip32WatcherKey))
	}

	return config, nil
}
