package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the guide's runtime configuration, read from the environment.
type Config struct {
	Port         string
	ProgressPath string
	FeedbackPath string
	ContentPath  string
	StaticDir    string

	AdminPassphrase string
	CSRFKey         string
	SecureCookies   bool

	LogLevel string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads a .env file from the working directory if there is one, then
// builds the config from the environment with defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds the config from the current environment.
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "8000"),
		ProgressPath:    getEnv("PROGRESS_PATH", "data/progress.json"),
		FeedbackPath:    getEnv("FEEDBACK_PATH", "data/feedback.csv"),
		ContentPath:     getEnv("CONTENT_PATH", ""),
		StaticDir:       getEnv("STATIC_DIR", "static"),
		AdminPassphrase: getEnv("ADMIN_PASSPHRASE", ""),
		CSRFKey:         getEnv("CSRF_KEY", ""),
		SecureCookies:   getEnvAsBool("SECURE_COOKIES", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// Validate checks the values that would make the server fail later.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.ProgressPath == "" {
		return fmt.Errorf("PROGRESS_PATH must not be empty")
	}
	if c.FeedbackPath == "" {
		return fmt.Errorf("FEEDBACK_PATH must not be empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			return err
		}
	}
	return nil
}

// CSRFKeyBytes decodes CSRF_KEY: 64 hex characters or a 32-byte raw string.
// It returns nil when no key is configured.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey == "" {
		return nil, nil
	}
	if len(c.CSRFKey) == 64 {
		if b, err := hex.DecodeString(c.CSRFKey); err == nil {
			return b, nil
		}
	}
	if len(c.CSRFKey) == 32 {
		return []byte(c.CSRFKey), nil
	}
	return nil, fmt.Errorf("CSRF_KEY must be 32 bytes or 64 hex characters")
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// NewLogger builds a production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return lvl, fmt.Errorf("LOG_LEVEL %q: %w", level, err)
	}
	return lvl, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
