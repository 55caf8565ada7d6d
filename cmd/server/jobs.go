// Package main provides the Telegram bot server entry point.
package main

import (
	"context"
	"time"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/index"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/memory"
	"github.com/datara-labs/datara-bot/internal/metrics"
)

// updateIndexMetrics periodically refreshes gauge metrics for the
// snapshot size and the conversation memory population.
func updateIndexMetrics(ctx context.Context, idx *index.Index, mem *memory.Store, m *metrics.Metrics, log *logger.Logger) {
	ticker := time.NewTicker(config.MetricsUpdateInterval)
	defer ticker.Stop()

	// Run initial update immediately
	performMetricsUpdate(idx, mem, m)
	log.Debug("Gauge metrics updater started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			performMetricsUpdate(idx, mem, m)
		}
	}
}

// performMetricsUpdate sets the snapshot and memory gauges
func performMetricsUpdate(idx *index.Index, mem *memory.Store, m *metrics.Metrics) {
	snap := idx.Snapshot()
	m.SetIndexEntries("info", len(snap.Infos))
	m.SetIndexEntries("document", len(snap.Documents))
	m.SetMemoryConversations(mem.Len())
}
