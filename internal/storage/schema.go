package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go.
func InitSchema(db *sql.DB) error {
	if err := createInfoEntriesTable(db); err != nil {
		return err
	}

	if err := createDocumentEntriesTable(db); err != nil {
		return err
	}

	return createSnapshotMetaTable(db)
}

func createInfoEntriesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS info_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keywords TEXT NOT NULL,
		answer TEXT NOT NULL
	);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create info_entries table: %w", err)
	}

	return nil
}

func createDocumentEntriesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS document_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keywords TEXT NOT NULL,
		file_url TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_document_entries_keywords ON document_entries(keywords);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create document_entries table: %w", err)
	}

	return nil
}

func createSnapshotMetaTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshot_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create snapshot_meta table: %w", err)
	}

	return nil
}
