// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	UserDB   UserDBConfig
	Telegram TelegramConfig
	Sandbox  SandboxConfig
	Session  SessionConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// UserDBConfig holds user database configuration.
type UserDBConfig struct {
	Type     string
	URI      string
	Database string
}

// TelegramConfig holds Telegram Bot API configuration.
type TelegramConfig struct {
	Token      string
	APIURL     string
	WebhookURL string
	Timeout    time.Duration

	// RequiredGroupIDs are the chats a user must belong to before any
	// sandbox action is allowed. Empty disables the membership check.
	RequiredGroupIDs []int64
}

// SandboxConfig holds ANY.RUN API configuration.
type SandboxConfig struct {
	APIURL  string
	Timeout time.Duration
}

// SessionConfig holds session state configuration.
type SessionConfig struct {
	TTL           time.Duration
	EncryptionKey string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	groupIDs, err := parseGroupIDs(getEnv("REQUIRED_GROUP_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUIRED_GROUP_IDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "redis"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 1800)) * time.Second,
		},
		UserDB: UserDBConfig{
			Type:     getEnv("USERDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "anyrun_bot"),
		},
		Telegram: TelegramConfig{
			Token:            getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIURL:           getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			WebhookURL:       getEnv("TELEGRAM_WEBHOOK_URL", ""),
			Timeout:          time.Duration(getEnvAsInt("TELEGRAM_TIMEOUT_SECONDS", 30)) * time.Second,
			RequiredGroupIDs: groupIDs,
		},
		Sandbox: SandboxConfig{
			APIURL:  getEnv("ANYRUN_API_URL", "https://api.any.run/v1"),
			Timeout: time.Duration(getEnvAsInt("ANYRUN_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Session: SessionConfig{
			TTL:           time.Duration(getEnvAsInt("SESSION_TTL_SECONDS", 1800)) * time.Second,
			EncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg, nil
}

// parseGroupIDs parses a comma-separated list of chat IDs.
func parseGroupIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a chat ID", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
