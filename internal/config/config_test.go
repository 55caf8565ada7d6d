package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	t.Setenv("INFO_SHEET_ID", "info-sheet")
	t.Setenv("PDF_SHEET_ID", "pdf-sheet")
	t.Setenv("GOOGLE_API_KEY", "api-key")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check required fields
	if cfg.TelegramBotToken != "test_token" {
		t.Errorf("Expected token 'test_token', got '%s'", cfg.TelegramBotToken)
	}
	if cfg.InfoSheetID != "info-sheet" {
		t.Errorf("Expected info sheet 'info-sheet', got '%s'", cfg.InfoSheetID)
	}

	// Check defaults
	if cfg.Port != "10000" {
		t.Errorf("Expected default port '10000', got '%s'", cfg.Port)
	}
	if cfg.RefreshInterval != IndexRefreshInterval {
		t.Errorf("Expected default refresh interval %v, got %v", IndexRefreshInterval, cfg.RefreshInterval)
	}
	if cfg.MemoryThreshold != 8 {
		t.Errorf("Expected default memory threshold 8, got %d", cfg.MemoryThreshold)
	}
	if cfg.DownloadMaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", cfg.DownloadMaxRetries)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name        string
		unset       string
		errContains string
	}{
		{"missing bot token", "TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN"},
		{"missing info sheet", "INFO_SHEET_ID", "INFO_SHEET_ID"},
		{"missing pdf sheet", "PDF_SHEET_ID", "PDF_SHEET_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not mention %q", err, tt.errContains)
			}
		})
	}
}

func TestLoadForMode_WarmupSkipsBotToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded without bot token, want error")
	}

	cfg, err := LoadForMode(WarmupMode)
	if err != nil {
		t.Fatalf("LoadForMode(WarmupMode) failed: %v", err)
	}
	if cfg.InfoSheetID != "info-sheet" {
		t.Errorf("Expected info sheet 'info-sheet', got '%s'", cfg.InfoSheetID)
	}
}

func TestLoad_CredentialsAlternatives(t *testing.T) {
	t.Run("credentials file without api key", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("GOOGLE_API_KEY", "")
		t.Setenv("GOOGLE_CREDENTIALS_FILE", "/tmp/creds.json")

		if _, err := Load(); err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
	})

	t.Run("neither credential source", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("GOOGLE_API_KEY", "")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() succeeded, want error")
		}
		if !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
			t.Errorf("error %q does not mention GOOGLE_API_KEY", err)
		}
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHEET_REFRESH_INTERVAL", "5m")
	t.Setenv("MEMORY_THRESHOLD", "12")
	t.Setenv("USER_RATE_LIMIT_BURST", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("Expected refresh interval 5m, got %v", cfg.RefreshInterval)
	}
	if cfg.MemoryThreshold != 12 {
		t.Errorf("Expected memory threshold 12, got %d", cfg.MemoryThreshold)
	}
	if cfg.UserRateLimitBurst != 30 {
		t.Errorf("Expected user burst 30, got %v", cfg.UserRateLimitBurst)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero refresh interval", func(c *Config) { c.RefreshInterval = 0 }},
		{"zero memory threshold", func(c *Config) { c.MemoryThreshold = 0 }},
		{"negative download retries", func(c *Config) { c.DownloadMaxRetries = -1 }},
		{"zero user burst", func(c *Config) { c.UserRateLimitBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}

			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}

func TestPollingMode(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.PollingMode() {
		t.Error("expected polling mode when WEBHOOK_URL unset")
	}

	cfg.WebhookURL = "https://bot.example.com/webhook"
	if cfg.PollingMode() {
		t.Error("expected webhook mode when WEBHOOK_URL set")
	}
}

func TestHasLLMProvider(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.HasLLMProvider() {
		t.Error("expected no provider by default")
	}

	cfg.GroqAPIKey = "gk"
	if !cfg.HasLLMProvider() {
		t.Error("expected provider with groq key")
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	got := cfg.SQLitePath()
	if !strings.HasSuffix(got, "index.db") {
		t.Errorf("SQLitePath() = %q, want suffix index.db", got)
	}
}
