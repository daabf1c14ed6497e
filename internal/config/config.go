// Package config reads runtime configuration from environment variables
// with sensible defaults.
package config

import (
	"os"
	"time"
)

const (
	envPort          = "PORT"
	envLockfile      = "LCU_LOCKFILE"
	envRetryInterval = "LCU_RETRY_INTERVAL"
	envDatabaseURL   = "DATABASE_URL"
	envDDragonURL    = "DDRAGON_BASE_URL"
	envLogLevel      = "LOG_LEVEL"

	defaultPort          = "8080"
	defaultLockfile      = `C:\Riot Games\League of Legends\lockfile`
	defaultRetryInterval = 10 * time.Second
	defaultDDragonURL    = "https://ddragon.leagueoflegends.com"
	defaultLogLevel      = "info"
)

// Config holds runtime configuration for the assistant.
type Config struct {
	Port           string
	LockfilePath   string
	RetryInterval  time.Duration
	DatabaseURL    string
	DDragonBaseURL string
	LogLevel       string
}

// Load reads configuration from the environment. DatabaseURL has no
// default; an empty value disables draft history recording.
func Load() Config {
	return Config{
		Port:           envOrDefault(envPort, defaultPort),
		LockfilePath:   envOrDefault(envLockfile, defaultLockfile),
		RetryInterval:  durationEnvOrDefault(envRetryInterval, defaultRetryInterval),
		DatabaseURL:    envOrDefault(envDatabaseURL, ""),
		DDragonBaseURL: envOrDefault(envDDragonURL, defaultDDragonURL),
		LogLevel:       envOrDefault(envLogLevel, defaultLogLevel),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnvOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
