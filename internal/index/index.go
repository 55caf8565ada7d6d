// Package index maintains the in-memory keyword snapshot backing the
// match resolver. Rows come from two spreadsheets (informational answers
// and downloadable documents), are refreshed on a timer, and are
// persisted to SQLite so a restart can serve matches before the first
// fetch completes.
package index

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/metrics"
	"github.com/datara-labs/datara-bot/internal/sheets"
	"github.com/datara-labs/datara-bot/internal/sliceutil"
	"github.com/datara-labs/datara-bot/internal/storage"
)

// Config identifies the two source spreadsheets.
type Config struct {
	InfoSheetID     string
	InfoSheetRange  string
	PDFSheetID      string
	PDFSheetRange   string
	RefreshInterval time.Duration
}

// Snapshot is an immutable view of the keyword index.
type Snapshot struct {
	Infos     []storage.InfoRecord
	Documents []storage.DocumentRecord
	FetchedAt time.Time
}

// Empty reports whether the snapshot holds no rows at all.
func (s Snapshot) Empty() bool {
	return len(s.Infos) == 0 && len(s.Documents) == 0
}

// Keywords returns every keyword in the snapshot, info rows first,
// duplicates removed, order preserved. Used as the fuzzy candidate pool.
func (s Snapshot) Keywords() []string {
	var keywords []string
	for _, rec := range s.Infos {
		keywords = append(keywords, rec.Keywords...)
	}
	for _, rec := range s.Documents {
		keywords = append(keywords, rec.Keywords...)
	}
	return sliceutil.Deduplicate(keywords, func(k string) string { return k })
}

// Index serves snapshots and refreshes them in the background.
type Index struct {
	cfg     Config
	source  sheets.RowSource
	db      *storage.DB
	log     *logger.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	current Snapshot
}

// New creates an index. db may be nil to disable persistence; metrics
// may be nil for tests.
func New(cfg Config, source sheets.RowSource, db *storage.DB, log *logger.Logger, m *metrics.Metrics) *Index {
	return &Index{
		cfg:     cfg,
		source:  source,
		db:      db,
		log:     log.WithModule("index"),
		metrics: m,
	}
}

// Snapshot returns the current snapshot.
func (idx *Index) Snapshot() Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.current
}

func (idx *Index) swap(snap Snapshot) {
	idx.mu.Lock()
	idx.current = snap
	idx.mu.Unlock()

	if idx.metrics != nil {
		idx.metrics.SetIndexEntries("info", len(snap.Infos))
		idx.metrics.SetIndexEntries("document", len(snap.Documents))
	}
}

// Refresh fetches both sheets, swaps in the new snapshot and persists
// it. A fetch error leaves the previous snapshot in place.
func (idx *Index) Refresh(ctx context.Context) error {
	start := time.Now()

	var infoRows, pdfRows []sheets.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetchCtx, cancel := context.WithTimeout(gctx, config.SheetFetch)
		defer cancel()
		rows, err := idx.source.Rows(fetchCtx, idx.cfg.InfoSheetID, idx.cfg.InfoSheetRange)
		if err != nil {
			return err
		}
		infoRows = rows
		return nil
	})
	g.Go(func() error {
		fetchCtx, cancel := context.WithTimeout(gctx, config.SheetFetch)
		defer cancel()
		rows, err := idx.source.Rows(fetchCtx, idx.cfg.PDFSheetID, idx.cfg.PDFSheetRange)
		if err != nil {
			return err
		}
		pdfRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		if idx.metrics != nil {
			idx.metrics.RecordIndexRefresh("error", time.Since(start).Seconds())
		}
		idx.log.WithError(err).ErrorContext(ctx, "keyword refresh failed")
		return err
	}

	snap := Snapshot{
		Infos:     ParseInfoRows(infoRows),
		Documents: ParseDocumentRows(pdfRows),
		FetchedAt: time.Now(),
	}
	idx.swap(snap)

	if idx.db != nil {
		if err := idx.db.ReplaceSnapshot(ctx, snap.Infos, snap.Documents, snap.FetchedAt); err != nil {
			idx.log.WithError(err).WarnContext(ctx, "snapshot persistence failed")
		}
	}

	if idx.metrics != nil {
		idx.metrics.RecordIndexRefresh("success", time.Since(start).Seconds())
	}
	idx.log.InfoContext(ctx, "keyword index refreshed",
		"info_entries", len(snap.Infos),
		"document_entries", len(snap.Documents),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// RestoreFromDB loads the last persisted snapshot. Used at startup when
// the initial fetch fails or has not completed yet.
func (idx *Index) RestoreFromDB(ctx context.Context) error {
	if idx.db == nil {
		return storage.ErrNoSnapshot
	}

	infos, docs, fetchedAt, err := idx.db.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	idx.swap(Snapshot{Infos: infos, Documents: docs, FetchedAt: fetchedAt})

	idx.log.InfoContext(ctx, "keyword index restored from database",
		"info_entries", len(infos),
		"document_entries", len(docs),
		"fetched_at", fetchedAt)
	return nil
}

// Run refreshes the index on the configured interval until ctx is done.
// The initial refresh is the caller's responsibility.
func (idx *Index) Run(ctx context.Context) {
	interval := idx.cfg.RefreshInterval
	if interval <= 0 {
		interval = config.IndexRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors keep the previous snapshot, next tick retries
			_ = idx.Refresh(ctx)
		}
	}
}
