package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port               string
	CORSAllowedOrigins []string
	CookieSecure       bool

	// Database
	DatabasePath string

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Principal cache
	PrincipalCacheSize int
	PrincipalCacheTTL  time.Duration
	RedisAddr          string
	RedisPassword      string

	LogLevel slog.Level

	// Values that were set but could not be parsed, reported by Validate.
	parseErrors []string
}

// Load reads an optional .env file from the working directory and then
// builds the Config from the environment. Variables already set in the
// environment take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds the Config from environment variables only.
func FromEnv() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "finance-tracker.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:5173")),
	}

	cfg.TokenTTL = cfg.getEnvDuration("TOKEN_TTL", 24*time.Hour)
	cfg.BcryptCost = cfg.getEnvInt("BCRYPT_COST", 12)
	cfg.PrincipalCacheSize = cfg.getEnvInt("PRINCIPAL_CACHE_SIZE", 1024)
	cfg.PrincipalCacheTTL = cfg.getEnvDuration("PRINCIPAL_CACHE_TTL", time.Minute)

	cfg.LogLevel = slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			cfg.parseErrors = append(cfg.parseErrors, fmt.Sprintf("invalid LOG_LEVEL '%s'", v))
		}
	}

	return cfg
}

// Validate checks the configuration and returns every problem in one error.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.parseErrors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DatabasePath == "" {
		problems = append(problems, "DATABASE_PATH cannot be empty")
	}

	switch {
	case c.JWTSecret == "":
		problems = append(problems, "JWT_SECRET is required")
	case len(c.JWTSecret) < 32:
		problems = append(problems, "JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	if c.TokenTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid TOKEN_TTL %v: must be at least 1 minute", c.TokenTTL))
	}

	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		problems = append(problems, fmt.Sprintf("invalid BCRYPT_COST %d: must be between 4 and 14", c.BcryptCost))
	}

	if c.PrincipalCacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid PRINCIPAL_CACHE_SIZE %d: must be at least 1", c.PrincipalCacheSize))
	}
	if c.PrincipalCacheTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid PRINCIPAL_CACHE_TTL %v: must be positive", c.PrincipalCacheTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': must be a number", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': must be a duration such as 30s or 24h", key, value))
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
