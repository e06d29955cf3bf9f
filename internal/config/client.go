package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ClientConfig configures the taskctl client.
type ClientConfig struct {
	APIBaseURL     string
	TokenFile      string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       slog.Level
}

func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{
		APIBaseURL:     strings.TrimRight(getEnv("TASKS_API_URL", "http://localhost:8080"), "/"),
		TokenFile:      getEnv("TASKS_TOKEN_FILE", defaultTokenFile()),
		RequestTimeout: getDuration("TASKS_REQUEST_TIMEOUT", 15*time.Second),
		RateLimitRPS:   getFloat("TASKS_RATE_LIMIT_RPS", 10),
		RateLimitBurst: getInt("TASKS_RATE_LIMIT_BURST", 5),
		LogLevel:       parseLevel(getEnv("TASKS_LOG_LEVEL", "warn")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ClientConfig) Validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("TASKS_API_URL must be an absolute URL")
	}

	if strings.TrimSpace(c.TokenFile) == "" {
		return fmt.Errorf("TASKS_TOKEN_FILE cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("TASKS_REQUEST_TIMEOUT must be positive")
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("TASKS_RATE_LIMIT_RPS cannot be negative")
	}

	return nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", ".taskctl", "storage.json")
	}

	return filepath.Join(dir, "taskctl", "storage.json")
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelWarn
	}

	return level
}
