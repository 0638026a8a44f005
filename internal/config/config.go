package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Session   SessionConfig
	Feed      FeedConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// SessionConfig holds login-session settings. Key is a base64 fernet key;
// when empty an ephemeral key is generated at startup, which invalidates
// sessions across restarts.
type SessionConfig struct {
	Key string
	TTL time.Duration
}

// FeedConfig holds the RSS feed settings. Prefix follows the original
// deployment convention: the literal value "username" means feed URLs are
// /<username>/<token>.rss, anything else is enforced as a fixed prefix.
type FeedConfig struct {
	PublicDomain  string
	Prefix        string
	TokenHashOnly bool
	RateLimit     int
	RateWindow    time.Duration
}

// SchedulerConfig holds the cron job settings.
type SchedulerConfig struct {
	Enabled       bool
	CaptureSpec   string
	PurgeSpec     string
	RetentionDays int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "18888"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fundflow.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Session: SessionConfig{
			Key: getEnv("SESSION_KEY", ""),
			TTL: getDuration("SESSION_TTL", 7*24*time.Hour),
		},
		Feed: FeedConfig{
			PublicDomain:  getEnv("PUBLIC_DOMAIN", "stock.example.cn"),
			Prefix:        getEnv("RSS_PREFIX", "username"),
			TokenHashOnly: getBool("RSS_TOKEN_HASH_ONLY", false),
			RateLimit:     getInt("RSS_RATE_LIMIT", 1),
			RateWindow:    getDuration("RSS_RATE_WINDOW", 60*time.Second),
		},
		Scheduler: SchedulerConfig{
			Enabled: getBool("SCHEDULER_ENABLED", true),
			// Weekdays shortly after the close; the purge runs nightly.
			CaptureSpec:   getEnv("CAPTURE_CRON", "15 15 * * 1-5"),
			PurgeSpec:     getEnv("PURGE_CRON", "30 3 * * *"),
			RetentionDays: getInt("FLOW_RETENTION_DAYS", 365),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes":
		return true
	}
	return false
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
