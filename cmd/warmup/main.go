// Command warmup fetches both keyword sheets once and persists the
// snapshot to the SQLite cache, so a fresh deployment can serve matches
// before its first scheduled refresh.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/index"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/sheets"
	"github.com/datara-labs/datara-bot/internal/storage"
)

// CLI flags
var (
	resetFlag   = flag.Bool("reset", false, "Delete the persisted snapshot before fetching")
	timeoutFlag = flag.Duration("timeout", 2*time.Minute, "Overall fetch timeout")
)

func main() {
	flag.Parse()

	// Load configuration (Telegram credentials not required)
	cfg, err := config.LoadForMode(config.WarmupMode)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting snapshot warmup tool")

	// Open the snapshot cache
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	// Handle reset flag
	if *resetFlag {
		log.Warn("Resetting persisted snapshot...")
		if err := db.ReplaceSnapshot(ctx, nil, nil, time.Time{}); err != nil {
			log.WithError(err).Fatal("Failed to reset snapshot")
		}
		log.Info("Snapshot reset complete")
	}

	// Create the Sheets row source
	sheetsClient, err := sheets.NewClient(ctx, cfg.GoogleAPIKey, cfg.CredentialsFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Sheets client")
	}

	idx := index.New(index.Config{
		InfoSheetID:     cfg.InfoSheetID,
		InfoSheetRange:  cfg.InfoSheetRange,
		PDFSheetID:      cfg.PDFSheetID,
		PDFSheetRange:   cfg.PDFSheetRange,
		RefreshInterval: cfg.RefreshInterval,
	}, sheetsClient, db, log, nil)

	startTime := time.Now()
	if err := idx.Refresh(ctx); err != nil {
		log.WithError(err).Fatal("Snapshot fetch failed")
	}

	snap := idx.Snapshot()
	log.WithField("infos", len(snap.Infos)).
		WithField("documents", len(snap.Documents)).
		WithField("duration_ms", time.Since(startTime).Milliseconds()).
		Info("Snapshot fetched and persisted")

	fmt.Printf("✅ Snapshot warmed: %d info rows, %d document rows in %v\n",
		len(snap.Infos), len(snap.Documents), time.Since(startTime).Round(time.Millisecond))
}
