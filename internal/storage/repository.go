package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const metaKeyFetchedAt = "fetched_at"

// ReplaceSnapshot replaces the persisted keyword snapshot in a single
// transaction. The previous snapshot is discarded entirely so the
// database always mirrors the latest successful sheet fetch.
func (db *DB) ReplaceSnapshot(ctx context.Context, infos []InfoRecord, docs []DocumentRecord, fetchedAt time.Time) error {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM info_entries`); err != nil {
		return fmt.Errorf("failed to clear info entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM document_entries`); err != nil {
		return fmt.Errorf("failed to clear document entries: %w", err)
	}

	infoStmt, err := tx.PrepareContext(ctx, `INSERT INTO info_entries (keywords, answer) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare info insert: %w", err)
	}
	defer func() { _ = infoStmt.Close() }()

	for _, rec := range infos {
		// Keywords are normalized and never contain commas
		if _, err := infoStmt.ExecContext(ctx, strings.Join(rec.Keywords, ","), rec.Answer); err != nil {
			return fmt.Errorf("failed to insert info entry: %w", err)
		}
	}

	docStmt, err := tx.PrepareContext(ctx, `INSERT INTO document_entries (keywords, file_url) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer func() { _ = docStmt.Close() }()

	for _, rec := range docs {
		if _, err := docStmt.ExecContext(ctx, strings.Join(rec.Keywords, ","), rec.FileURL); err != nil {
			return fmt.Errorf("failed to insert document entry: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaKeyFetchedAt, strconv.FormatInt(fetchedAt.Unix(), 10),
	); err != nil {
		return fmt.Errorf("failed to record snapshot time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	if duration := time.Since(start); duration > 500*time.Millisecond {
		slog.WarnContext(ctx, "slow snapshot write",
			"operation", "ReplaceSnapshot",
			"duration_ms", duration.Milliseconds(),
			"info_count", len(infos),
			"document_count", len(docs))
	}
	return nil
}

// LoadSnapshot returns the persisted keyword snapshot and the time its
// rows were fetched. Returns ErrNoSnapshot when nothing was persisted.
func (db *DB) LoadSnapshot(ctx context.Context) ([]InfoRecord, []DocumentRecord, time.Time, error) {
	var fetchedAtRaw string
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = ?`, metaKeyFetchedAt,
	).Scan(&fetchedAtRaw)
	if err != nil {
		return nil, nil, time.Time{}, ErrNoSnapshot
	}

	unix, err := strconv.ParseInt(fetchedAtRaw, 10, 64)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("corrupt snapshot timestamp %q: %w", fetchedAtRaw, err)
	}
	fetchedAt := time.Unix(unix, 0)

	infoRows, err := db.conn.QueryContext(ctx, `SELECT keywords, answer FROM info_entries ORDER BY id`)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to load info entries: %w", err)
	}
	defer func() { _ = infoRows.Close() }()

	var infos []InfoRecord
	for infoRows.Next() {
		var keywords, answer string
		if err := infoRows.Scan(&keywords, &answer); err != nil {
			return nil, nil, time.Time{}, fmt.Errorf("failed to scan info entry: %w", err)
		}
		infos = append(infos, InfoRecord{
			Keywords: strings.Split(keywords, ","),
			Answer:   answer,
		})
	}
	if err := infoRows.Err(); err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to iterate info entries: %w", err)
	}

	docRows, err := db.conn.QueryContext(ctx, `SELECT keywords, file_url FROM document_entries ORDER BY id`)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to load document entries: %w", err)
	}
	defer func() { _ = docRows.Close() }()

	var docs []DocumentRecord
	for docRows.Next() {
		var keywords, fileURL string
		if err := docRows.Scan(&keywords, &fileURL); err != nil {
			return nil, nil, time.Time{}, fmt.Errorf("failed to scan document entry: %w", err)
		}
		docs = append(docs, DocumentRecord{
			Keywords: strings.Split(keywords, ","),
			FileURL:  fileURL,
		})
	}
	if err := docRows.Err(); err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("failed to iterate document entries: %w", err)
	}

	return infos, docs, fetchedAt, nil
}
