// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, refresh intervals, rate limits, and memory settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/datara-labs/datara-bot/internal/errors"
)

// Config holds all application configuration
type Config struct {
	// Telegram Bot Configuration
	TelegramBotToken string
	WebhookURL       string // Public webhook URL; empty enables long polling

	// Spreadsheet Configuration
	InfoSheetID     string // Spreadsheet with informational keyword rows
	PDFSheetID      string // Spreadsheet with document keyword rows
	InfoSheetRange  string // A1 range for the info sheet (default: "Sheet1")
	PDFSheetRange   string // A1 range for the pdf sheet (default: "Sheet1")
	GoogleAPIKey    string // API key for public spreadsheets
	CredentialsFile string // Service account credentials file (alternative to API key)
	RefreshInterval time.Duration

	// LLM Configuration
	GeminiAPIKey string // Gemini API key for fallback replies and tone rewriting
	GroqAPIKey   string // Groq API key (alternative LLM provider)

	// LLM Model Configuration (optional, defaults apply if empty)
	GeminiModel string // Gemini model for completions
	GroqModel   string // Groq model for completions

	// LLM Provider Configuration
	LLMPrimaryProvider  string // Primary LLM provider: "gemini" or "groq" (default: "gemini")
	LLMFallbackProvider string // Fallback LLM provider: "gemini" or "groq" (default: "groq")

	// Conversation Memory
	MemoryThreshold int // Entries kept before compaction into a summary (default: 8)

	// Tone Adapter
	ToneEnabled bool // Pass info answers through the politeness rewrite (default: true)

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Observability
	BetterstackToken    string
	BetterstackEndpoint string
	SentryDSN           string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Data directory for the SQLite snapshot cache

	// Download Configuration
	DownloadTimeout    time.Duration
	DownloadMaxRetries int

	// Rate Limits (Token Bucket Algorithm)
	UserRateLimitBurst        float64 // Maximum burst tokens per user (default: 15)
	UserRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.2 = 1 per 5s)
	LLMBurstTokens            float64 // Maximum burst tokens for LLM calls (default: 40)
	LLMRefillPerHour          float64 // LLM tokens refilled per hour (default: 60)
}

// Mode selects which validation rules apply when loading configuration.
type Mode int

const (
	// ServerMode requires the full configuration including the bot token.
	ServerMode Mode = iota

	// WarmupMode is for offline snapshot tooling and skips the
	// Telegram credential requirement.
	WarmupMode
)

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	return LoadForMode(ServerMode)
}

// LoadForMode reads configuration and validates it for the given mode.
func LoadForMode(mode Mode) (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Telegram Bot Configuration
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),

		// Spreadsheet Configuration
		InfoSheetID:     getEnv("INFO_SHEET_ID", ""),
		PDFSheetID:      getEnv("PDF_SHEET_ID", ""),
		InfoSheetRange:  getEnv("INFO_SHEET_RANGE", "Sheet1"),
		PDFSheetRange:   getEnv("PDF_SHEET_RANGE", "Sheet1"),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		RefreshInterval: getDurationEnv("SHEET_REFRESH_INTERVAL", IndexRefreshInterval),

		// LLM Configuration
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),

		// LLM Model Configuration (empty = use defaults from genai package)
		GeminiModel: getEnv("GEMINI_MODEL", ""),
		GroqModel:   getEnv("GROQ_MODEL", ""),

		// LLM Provider Configuration
		LLMPrimaryProvider:  getEnv("LLM_PRIMARY_PROVIDER", "gemini"),
		LLMFallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", "groq"),

		// Conversation Memory
		MemoryThreshold: getIntEnv("MEMORY_THRESHOLD", 8),

		// Tone Adapter
		ToneEnabled: getBoolEnv("TONE_ENABLED", true),

		// Metrics Authentication
		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		// Observability
		BetterstackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterstackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),
		SentryDSN:           getEnv("SENTRY_DSN", ""),

		// Server Configuration
		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", GracefulShutdown),

		// Data Configuration
		DataDir: getEnv("DATA_DIR", getDefaultDataDir()),

		// Download Configuration
		DownloadTimeout:    getDurationEnv("DOWNLOAD_TIMEOUT", DownloadRequest),
		DownloadMaxRetries: getIntEnv("DOWNLOAD_MAX_RETRIES", 3),

		// Rate Limits
		UserRateLimitBurst:        getFloatEnv("USER_RATE_LIMIT_BURST", 15.0),
		UserRateLimitRefillPerSec: getFloatEnv("USER_RATE_LIMIT_REFILL_PER_SEC", 0.2), // 1 per 5s
		LLMBurstTokens:            getFloatEnv("LLM_BURST_TOKENS", 40.0),
		LLMRefillPerHour:          getFloatEnv("LLM_REFILL_PER_HOUR", 60.0),
	}

	// Validate configuration
	if err := cfg.ValidateForMode(mode); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	return c.ValidateForMode(ServerMode)
}

// ValidateForMode checks required configuration values for the given mode
func (c *Config) ValidateForMode(mode Mode) error {
	var errs []error

	if mode == ServerMode && c.TelegramBotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.InfoSheetID == "" {
		errs = append(errs, errors.New("INFO_SHEET_ID is required"))
	}
	if c.PDFSheetID == "" {
		errs = append(errs, errors.New("PDF_SHEET_ID is required"))
	}
	if c.GoogleAPIKey == "" && c.CredentialsFile == "" {
		errs = append(errs, errors.New("GOOGLE_API_KEY or GOOGLE_CREDENTIALS_FILE is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, apperrors.NewValidationError("SHEET_REFRESH_INTERVAL", fmt.Sprintf("must be positive, got %v", c.RefreshInterval)))
	}
	if c.MemoryThreshold <= 0 {
		errs = append(errs, apperrors.NewValidationError("MEMORY_THRESHOLD", fmt.Sprintf("must be positive, got %d", c.MemoryThreshold)))
	}
	if c.DownloadTimeout <= 0 {
		errs = append(errs, apperrors.NewValidationError("DOWNLOAD_TIMEOUT", fmt.Sprintf("must be positive, got %v", c.DownloadTimeout)))
	}
	if c.DownloadMaxRetries < 0 {
		errs = append(errs, apperrors.NewValidationError("DOWNLOAD_MAX_RETRIES", fmt.Sprintf("cannot be negative, got %d", c.DownloadMaxRetries)))
	}
	if c.UserRateLimitBurst <= 0 {
		errs = append(errs, apperrors.NewValidationError("USER_RATE_LIMIT_BURST", fmt.Sprintf("must be positive, got %v", c.UserRateLimitBurst)))
	}
	if c.UserRateLimitRefillPerSec <= 0 {
		errs = append(errs, apperrors.NewValidationError("USER_RATE_LIMIT_REFILL_PER_SEC", fmt.Sprintf("must be positive, got %v", c.UserRateLimitRefillPerSec)))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite snapshot database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "index.db")
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != ""
}

// PollingMode reports whether updates should be fetched via long polling.
func (c *Config) PollingMode() bool {
	return c.WebhookURL == ""
}
