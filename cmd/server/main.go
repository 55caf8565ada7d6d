// Package main provides the Telegram bot server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/datara-labs/datara-bot/internal/buildinfo"
	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/drive"
	"github.com/datara-labs/datara-bot/internal/genai"
	"github.com/datara-labs/datara-bot/internal/index"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/memory"
	"github.com/datara-labs/datara-bot/internal/metrics"
	"github.com/datara-labs/datara-bot/internal/ratelimit"
	"github.com/datara-labs/datara-bot/internal/router"
	"github.com/datara-labs/datara-bot/internal/sentry"
	"github.com/datara-labs/datara-bot/internal/sheets"
	"github.com/datara-labs/datara-bot/internal/storage"
	"github.com/datara-labs/datara-bot/internal/telegram"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger (ships to Better Stack when a token is configured)
	log := logger.NewWithOptions(logger.Options{
		Level:               cfg.LogLevel,
		BetterstackToken:    cfg.BetterstackToken,
		BetterstackEndpoint: cfg.BetterstackEndpoint,
	})
	log.WithField("version", buildinfo.Version).Info("Starting Datara Bot Server")

	// Initialize Sentry error tracking (disabled with empty DSN)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: "production",
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	}

	// Open the SQLite snapshot cache
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create the Sheets row source
	sheetsClient, err := sheets.NewClient(context.Background(), cfg.GoogleAPIKey, cfg.CredentialsFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Sheets client")
	}
	log.Info("Sheets client created")

	// Create the keyword index and serve the persisted snapshot until
	// the first fetch completes
	idx := index.New(index.Config{
		InfoSheetID:     cfg.InfoSheetID,
		InfoSheetRange:  cfg.InfoSheetRange,
		PDFSheetID:      cfg.PDFSheetID,
		PDFSheetRange:   cfg.PDFSheetRange,
		RefreshInterval: cfg.RefreshInterval,
	}, sheetsClient, db, log, m)

	if err := idx.RestoreFromDB(context.Background()); err != nil {
		if errors.Is(err, storage.ErrNoSnapshot) {
			log.Info("No persisted snapshot, waiting for first fetch")
		} else {
			log.WithError(err).Warn("Failed to restore persisted snapshot")
		}
	} else {
		snap := idx.Snapshot()
		log.WithField("infos", len(snap.Infos)).
			WithField("documents", len(snap.Documents)).
			WithField("fetched_at", snap.FetchedAt).
			Info("Snapshot restored from database")
	}

	// Create the Drive document fetcher
	driveClient := drive.NewClient(cfg.DownloadTimeout, cfg.DownloadMaxRetries, log, m)

	// Create the LLM provider chain (optional, empty chain disables AI replies)
	chain, err := genai.NewChainFromConfig(context.Background(), cfg, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create LLM provider chain")
	}
	if chain.Enabled() {
		log.Info("LLM provider chain created")
	} else {
		log.Info("No LLM provider configured, fallback and tone rewriting disabled")
	}
	responder := genai.NewResponder(chain, log, m)

	// Per-user conversation memory for the AI fallback
	mem := memory.NewStore(cfg.MemoryThreshold)

	// Per-user rate limiters: one bucket per sender for message volume,
	// a stricter one for LLM calls
	userLimit := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.UserRateLimitBurst,
		RefillRate:    cfg.UserRateLimitRefillPerSec,
		CleanupPeriod: config.RateLimiterCleanupInterval,
	})
	defer userLimit.Stop()

	llmLimit := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.LLMBurstTokens,
		RefillRate:    cfg.LLMRefillPerHour / 3600,
		CleanupPeriod: config.RateLimiterCleanupInterval,
	})
	defer llmLimit.Stop()

	userLimit.OnDrop(func() { m.RecordRateLimiterDrop("user") })
	llmLimit.OnDrop(func() { m.RecordRateLimiterDrop("llm") })
	userLimit.OnUpdate(func(count int) { m.SetActiveRateLimiters("user", count) })
	llmLimit.OnUpdate(func(count int) { m.SetActiveRateLimiters("llm", count) })

	// Create the message router
	rtr := router.New(router.Config{
		Index:       idx,
		Responder:   responder,
		Memory:      mem,
		UserLimit:   userLimit,
		LLMLimit:    llmLimit,
		Metrics:     m,
		ToneEnabled: cfg.ToneEnabled,
	}, log)

	// Create the Telegram client and update processor
	tgClient, err := telegram.NewClient(cfg.TelegramBotToken, driveClient, log, m)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Telegram client")
	}
	log.WithField("username", tgClient.BotUsername()).Info("Telegram client created")

	processor := telegram.NewProcessor(rtr, tgClient, log, m)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	engine := gin.New()

	// Add middleware
	engine.Use(gin.Recovery())
	if sentry.IsEnabled() {
		engine.Use(sentry.GinMiddleware())
	}
	engine.Use(securityHeadersMiddleware())
	engine.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(engine, processor, db, idx, registry, cfg)

	// Create HTTP server with timeouts sized for webhook handling
	// See internal/config/timeouts.go for detailed explanations
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Index refresh goroutine (initial fetch, then periodic)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in index refresh goroutine")
			}
		}()
		if err := idx.Refresh(ctx); err != nil {
			log.WithError(err).Warn("Initial keyword fetch failed, serving persisted snapshot until retry")
		}
		idx.Run(ctx)
	}()

	// Index size metrics updater goroutine (every 5 minutes)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in index metrics goroutine")
			}
		}()
		updateIndexMetrics(ctx, idx, mem, m, log)
	}()

	// Receive updates: long polling locally, webhook when a public URL
	// is configured
	if cfg.PollingMode() {
		log.Info("No webhook URL configured, starting long polling")
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("Panic in polling goroutine")
				}
			}()
			processor.Poll(ctx)
		}()
	} else {
		if err := processor.RegisterWebhook(cfg.WebhookURL + "/webhook"); err != nil {
			log.WithError(err).Fatal("Failed to register webhook")
		}
		log.WithField("url", cfg.WebhookURL+"/webhook").Info("Webhook registered")
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop background goroutines (polling, refresh, metrics)
	cancel()

	// Wait for in-flight update processing to finish
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	if err := processor.Shutdown(drainCtx); err != nil {
		log.WithError(err).Warn("Timeout waiting for in-flight updates")
	}
	drainCancel()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close LLM provider clients
	if err := chain.Close(); err != nil {
		log.WithError(err).Error("Failed to close LLM providers")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")

	// Flush buffered Sentry events and remote logs
	sentry.Flush(2 * time.Second)
	if err := log.Shutdown(shutdownCtx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", err)
	}
}
