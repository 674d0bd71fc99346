package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Probe  ProbeConfig
	Store  StoreConfig
	Server ServerConfig
	Queue  QueueConfig
}

// ProbeConfig controls the audio reachability checks.
type ProbeConfig struct {
	// WindowSize caps the number of simultaneous outbound probes.
	WindowSize  int
	MaxAttempts int
	Timeout     time.Duration
}

// StoreConfig controls where the merged dataset is persisted.
type StoreConfig struct {
	DataDir string
}

// ServerConfig holds the query API configuration.
type ServerConfig struct {
	Port string
}

// QueueConfig holds the task queue configuration.
type QueueConfig struct {
	RedisAddr string
	// Schedule is a cron expression understood by the asynq scheduler.
	Schedule string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Probe: ProbeConfig{
			WindowSize:  getEnvInt("PROBE_WINDOW_SIZE", 100),
			MaxAttempts: getEnvInt("PROBE_MAX_ATTEMPTS", 3),
			Timeout:     getEnvDuration("PROBE_TIMEOUT", 5*time.Second),
		},
		Store: StoreConfig{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Queue: QueueConfig{
			RedisAddr: getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Schedule:  getEnv("INGEST_SCHEDULE", "@every 6h"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
