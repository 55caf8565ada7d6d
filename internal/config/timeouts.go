// Package config provides centralized timeout constants for the application.
//
// These values are tuned based on:
//   - Telegram Bot API behavior (long polling timeouts, send latency)
//   - Google Sheets API response times
//   - Google Drive download sizes typical for course documents
package config

import "time"

// Update processing timeouts
const (
	// UpdateProcessing is the timeout for processing a single Telegram update.
	// This includes keyword resolution, LLM calls, and document downloads.
	UpdateProcessing = 60 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Telegram sends small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	WebhookHTTPWrite = 65 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second

	// PollTimeout is the Telegram long-poll timeout in seconds.
	PollTimeout = 30
)

// Data source timeouts
const (
	// SheetFetch is the timeout for fetching one spreadsheet.
	SheetFetch = 30 * time.Second

	// IndexRefreshInterval is how often keyword rows are re-fetched.
	IndexRefreshInterval = 2 * time.Minute

	// DownloadRequest is the timeout for a single document download request.
	DownloadRequest = 60 * time.Second

	// DownloadRetryInitial is the initial delay before retrying a failed download.
	DownloadRetryInitial = 2 * time.Second
)

// LLM timeouts
const (
	// CompletionTimeout is the timeout for a single completion request.
	// Includes retry with exponential backoff inside the provider chain.
	CompletionTimeout = 30 * time.Second

	// SummarizeTimeout is the timeout for background conversation compaction.
	// Uses a detached context so compaction survives the originating update.
	SummarizeTimeout = 30 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is SQLite busy_timeout pragma value.
	// Handles concurrent write contention during index refresh.
	DatabaseBusyTimeout = 30 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database connections.
	// Prevents stale connections and allows connection pool refresh.
	DatabaseConnMaxLifetime = time.Hour
)

// Background job intervals
const (
	// MetricsUpdateInterval is how often index size metrics are updated.
	MetricsUpdateInterval = 5 * time.Minute

	// RateLimiterCleanupInterval is how often inactive user rate limiters are cleaned.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight updates to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
