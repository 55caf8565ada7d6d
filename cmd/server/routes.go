// Package main provides the Telegram bot server entry point.
package main

import (
	"net/http"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/index"
	"github.com/datara-labs/datara-bot/internal/storage"
	"github.com/datara-labs/datara-bot/internal/telegram"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes
func setupRoutes(engine *gin.Engine, processor *telegram.Processor, db *storage.DB, idx *index.Index, registry *prometheus.Registry, cfg *config.Config) {
	// Root endpoint - redirect to GitHub
	rootHandler := func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "https://github.com/datara-labs/datara-bot")
	}
	engine.GET("/", rootHandler)
	engine.HEAD("/", rootHandler)

	// Liveness Probe - checks if the process is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	liveHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	engine.GET("/livez", liveHandler)
	engine.HEAD("/livez", liveHandler)

	// Readiness Probe - ready once the database responds and at least
	// one keyword snapshot (persisted or freshly fetched) is being served
	readyHandler := func(c *gin.Context) {
		if err := db.Conn().PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		snap := idx.Snapshot()
		if snap.Empty() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "keyword snapshot not loaded",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"index": gin.H{
				"infos":      len(snap.Infos),
				"documents":  len(snap.Documents),
				"fetched_at": snap.FetchedAt,
			},
		})
	}
	engine.GET("/readyz", readyHandler)
	engine.HEAD("/readyz", readyHandler)

	// Telegram webhook endpoint (unused in polling mode)
	engine.POST("/webhook", processor.WebhookHandler())

	// Prometheus metrics endpoint, behind Basic Auth when a password is set
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := engine.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		engine.GET("/metrics", metricsHandler)
	}
}
