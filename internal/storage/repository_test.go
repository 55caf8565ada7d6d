package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReplaceAndLoadSnapshot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	infos := []InfoRecord{
		{Keywords: []string{"exam", "exam schedule"}, Answer: "Exams start on Monday."},
		{Keywords: []string{"hostel"}, Answer: "Hostel office is in block B."},
	}
	docs := []DocumentRecord{
		{Keywords: []string{"exam form", "exam application"}, FileURL: "https://drive.google.com/uc?export=download&id=ABC123"},
	}
	fetchedAt := time.Now().Truncate(time.Second)

	if err := db.ReplaceSnapshot(ctx, infos, docs, fetchedAt); err != nil {
		t.Fatalf("ReplaceSnapshot failed: %v", err)
	}

	gotInfos, gotDocs, gotAt, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if len(gotInfos) != 2 {
		t.Fatalf("expected 2 info records, got %d", len(gotInfos))
	}
	if gotInfos[0].Answer != "Exams start on Monday." {
		t.Errorf("answer = %q", gotInfos[0].Answer)
	}
	if len(gotInfos[0].Keywords) != 2 || gotInfos[0].Keywords[1] != "exam schedule" {
		t.Errorf("keywords = %v", gotInfos[0].Keywords)
	}

	if len(gotDocs) != 1 {
		t.Fatalf("expected 1 document record, got %d", len(gotDocs))
	}
	if len(gotDocs[0].Keywords) != 2 || gotDocs[0].Keywords[1] != "exam application" {
		t.Errorf("keywords = %v", gotDocs[0].Keywords)
	}

	if !gotAt.Equal(fetchedAt) {
		t.Errorf("fetchedAt = %v, want %v", gotAt, fetchedAt)
	}
}

func TestReplaceSnapshot_DiscardsPrevious(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := []InfoRecord{{Keywords: []string{"old"}, Answer: "old answer"}}
	if err := db.ReplaceSnapshot(ctx, first, nil, time.Now()); err != nil {
		t.Fatalf("first ReplaceSnapshot failed: %v", err)
	}

	second := []InfoRecord{{Keywords: []string{"new"}, Answer: "new answer"}}
	if err := db.ReplaceSnapshot(ctx, second, nil, time.Now()); err != nil {
		t.Fatalf("second ReplaceSnapshot failed: %v", err)
	}

	infos, docs, _, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(infos) != 1 || infos[0].Answer != "new answer" {
		t.Errorf("infos = %+v, want only the new record", infos)
	}
	if len(docs) != 0 {
		t.Errorf("docs = %+v, want empty", docs)
	}
}

func TestLoadSnapshot_Empty(t *testing.T) {
	db := setupTestDB(t)

	_, _, _, err := db.LoadSnapshot(context.Background())
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("LoadSnapshot on empty database = %v, want ErrNoSnapshot", err)
	}
}

func TestReplaceSnapshot_EmptyRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// An empty snapshot is still a valid snapshot
	if err := db.ReplaceSnapshot(ctx, nil, nil, time.Now()); err != nil {
		t.Fatalf("ReplaceSnapshot failed: %v", err)
	}

	infos, docs, _, err := db.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(infos) != 0 || len(docs) != 0 {
		t.Errorf("expected empty snapshot, got %d infos, %d docs", len(infos), len(docs))
	}
}
