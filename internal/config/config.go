// Package config reads the server configuration from the environment, with an
// optional .env file layered underneath.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
	"github.com/ZanzyTHEbar/github-activity-tracker/internal/monitoring"
)

// Config holds every environment-driven setting of the server
type Config struct {
	Port     string
	GinMode  string
	LogLevel slog.Level

	GitHubAPIURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitPerMin int
	AllowedOrigins  []string

	// AnalysisTimeout bounds one analysis request; 0 disables it
	AnalysisTimeout time.Duration

	EnableProfiling bool
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.NewConfigurationError("failed to read .env file", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		LogLevel:        monitoring.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		GitHubAPIURL:    getEnvOrDefault("GITHUB_API_URL", "https://api.github.com"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		AllowedOrigins:  splitList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
		EnableProfiling: os.Getenv("ENABLE_PROFILING") == "true",
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, apperrors.NewConfigurationError(
			"GIN_MODE must be debug, release or test",
			fmt.Errorf("got %q", cfg.GinMode),
		)
	}

	var err error
	if cfg.RedisDB, err = getIntOrDefault("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMin, err = getIntOrDefault("RATE_LIMIT_PER_MIN", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMin <= 0 {
		return nil, apperrors.NewConfigurationError(
			"RATE_LIMIT_PER_MIN must be positive",
			fmt.Errorf("got %d", cfg.RateLimitPerMin),
		)
	}
	if cfg.AnalysisTimeout, err = getDurationOrDefault("ANALYSIS_TIMEOUT", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// RedisEnabled reports whether a Redis address was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := getEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewConfigurationError(fmt.Sprintf("%s must be an integer", key), err)
	}
	return n, nil
}

// getDurationOrDefault accepts Go durations ("90s") or bare seconds ("90")
func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if err == nil {
			err = fmt.Errorf("negative duration %s", raw)
		}
		return 0, apperrors.NewConfigurationError(fmt.Sprintf("%s must be a duration", key), err)
	}
	return d, nil
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
