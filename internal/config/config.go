package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Log      LogConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string // listen address (e.g., ":8080")
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// SessionConfig contains session cookie settings.
type SessionConfig struct {
	Secret     string        // cookie signing secret
	CookieName string        // cookie name
	Secure     bool          // set the Secure attribute (HTTPS only)
	MaxAge     time.Duration // cookie lifetime
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text (colored) or json
}

const devSecret = "dev-secret-change-me"

// Load loads configuration from environment variables with sensible defaults.
// SESSION_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set; required for production")
	}

	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for SESSION_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load(devSecret)
}

// LoadForEnv picks LoadWithDefaults when APP_ENV is "development" and Load
// otherwise.
func LoadForEnv() (*Config, error) {
	if strings.EqualFold(os.Getenv("APP_ENV"), "development") {
		return LoadWithDefaults()
	}
	return Load()
}

func load(defaultSecret string) (*Config, error) {
	secure, err := getEnvBool("SESSION_SECURE", false)
	if err != nil {
		return nil, err
	}
	maxAge, err := getEnvDuration("SESSION_MAX_AGE", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Addr: getEnv("ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/bills.db"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", defaultSecret),
			CookieName: getEnv("SESSION_COOKIE", "bill_session"),
			Secure:     secure,
			MaxAge:     maxAge,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

// LoadEnvFiles loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadEnvFiles(paths ...string) error {
	var found []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", p, err)
		}
	}
	if len(found) == 0 {
		return nil
	}
	if err := godotenv.Load(found...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// getEnvBool retrieves an environment variable as a bool with a default fallback.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// getEnvDuration retrieves an environment variable as a duration with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, DB: %s, Cookie: %s, Secret: *** (masked) ***}",
		c.Server.Addr, c.Database.Path, c.Session.CookieName)
}
