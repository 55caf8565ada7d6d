package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

func TestNewMultiHandler_NilFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	jsonHandler := slog.NewJSONHandler(&buf, nil)

	// A nil remote handler (no Better Stack token) is skipped
	mh := NewMultiHandler(nil, jsonHandler, nil)
	if mh == nil {
		t.Fatal("NewMultiHandler returned nil")
	}
	if len(mh.handlers) != 1 {
		t.Errorf("Expected 1 handler after filtering nils, got %d", len(mh.handlers))
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	t.Parallel()

	var local, remote bytes.Buffer
	localHandler := slog.NewJSONHandler(&local, &slog.HandlerOptions{Level: slog.LevelDebug})
	remoteHandler := slog.NewJSONHandler(&remote, &slog.HandlerOptions{Level: slog.LevelError})

	mh := NewMultiHandler(localHandler, remoteHandler)

	// Enabled as long as any handler wants the level
	tests := []struct {
		level    slog.Level
		expected bool
	}{
		{slog.LevelDebug, true},
		{slog.LevelInfo, true},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := mh.Enabled(context.Background(), tt.level); got != tt.expected {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestMultiHandler_Handle(t *testing.T) {
	t.Parallel()

	var local, remote bytes.Buffer
	localHandler := slog.NewJSONHandler(&local, &slog.HandlerOptions{Level: slog.LevelInfo})
	remoteHandler := slog.NewJSONHandler(&remote, &slog.HandlerOptions{Level: slog.LevelInfo})

	mh := NewMultiHandler(localHandler, remoteHandler)
	logger := slog.New(mh)

	logger.Info("update handled", "user_id", "1001")

	// Both destinations receive the record
	var entry1, entry2 map[string]any
	if err := json.Unmarshal(local.Bytes(), &entry1); err != nil {
		t.Fatalf("Failed to parse JSON from local handler: %v", err)
	}
	if err := json.Unmarshal(remote.Bytes(), &entry2); err != nil {
		t.Fatalf("Failed to parse JSON from remote handler: %v", err)
	}

	if entry1["msg"] != "update handled" {
		t.Errorf("Local msg = %v, want 'update handled'", entry1["msg"])
	}
	if entry2["msg"] != "update handled" {
		t.Errorf("Remote msg = %v, want 'update handled'", entry2["msg"])
	}
	if entry1["user_id"] != "1001" {
		t.Errorf("Local user_id = %v, want '1001'", entry1["user_id"])
	}
	if entry2["user_id"] != "1001" {
		t.Errorf("Remote user_id = %v, want '1001'", entry2["user_id"])
	}
}

func TestMultiHandler_Handle_LevelFiltering(t *testing.T) {
	t.Parallel()

	var local, remote bytes.Buffer
	localHandler := slog.NewJSONHandler(&local, &slog.HandlerOptions{Level: slog.LevelDebug})
	remoteHandler := slog.NewJSONHandler(&remote, &slog.HandlerOptions{Level: slog.LevelError})

	mh := NewMultiHandler(localHandler, remoteHandler)
	logger := slog.New(mh)

	logger.Info("info message")

	// The debug-level local handler receives the record
	if local.Len() == 0 {
		t.Error("Local handler should have received info message")
	}
	// The error-level remote handler does not
	if remote.Len() != 0 {
		t.Error("Remote handler should NOT have received info message")
	}
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	mh := NewMultiHandler(handler)

	newHandler := mh.WithAttrs([]slog.Attr{slog.String("module", "router")})
	logger := slog.New(newHandler)

	logger.Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if entry["module"] != "router" {
		t.Errorf("Expected module='router', got %v", entry["module"])
	}
}

func TestMultiHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	mh := NewMultiHandler(handler)

	newHandler := mh.WithGroup("update")
	newHandler = newHandler.WithAttrs([]slog.Attr{slog.String("id", "123")})
	logger := slog.New(newHandler)

	logger.Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	update, ok := entry["update"].(map[string]any)
	if !ok {
		t.Fatalf("Expected 'update' group, got %v", entry)
	}
	if update["id"] != "123" {
		t.Errorf("Expected update.id='123', got %v", update["id"])
	}
}

// errorHandler is a test handler that always returns an error
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("handler error")
}

func (h *errorHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func TestMultiHandler_Handle_ErrorCollection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	goodHandler := slog.NewJSONHandler(&buf, nil)
	badHandler := &errorHandler{}

	mh := NewMultiHandler(goodHandler, badHandler)

	record := slog.Record{}
	record.Message = "test"

	err := mh.Handle(context.Background(), record)

	// A failing remote destination must not block the local write
	if buf.Len() == 0 {
		t.Error("Good handler should have written the log")
	}

	if err == nil {
		t.Error("Expected error from bad handler")
	}
	if !errors.Is(err, errors.Unwrap(err)) && err.Error() != "handler error" {
		t.Errorf("Expected 'handler error', got %v", err)
	}
}

func TestMultiHandler_Concurrent(t *testing.T) {
	t.Parallel()

	var local, remote bytes.Buffer
	var mu1, mu2 sync.Mutex

	// Locked writers keep the test race free
	localHandler := slog.NewJSONHandler(&lockedWriter{w: &local, mu: &mu1}, nil)
	remoteHandler := slog.NewJSONHandler(&lockedWriter{w: &remote, mu: &mu2}, nil)

	mh := NewMultiHandler(localHandler, remoteHandler)
	logger := slog.New(mh)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Info("concurrent log", "iteration", i)
		}(i)
	}
	wg.Wait()

	mu1.Lock()
	count1 := bytes.Count(local.Bytes(), []byte("concurrent log"))
	mu1.Unlock()

	mu2.Lock()
	count2 := bytes.Count(remote.Bytes(), []byte("concurrent log"))
	mu2.Unlock()

	if count1 != 100 {
		t.Errorf("Local handler should have 100 logs, got %d", count1)
	}
	if count2 != 100 {
		t.Errorf("Remote handler should have 100 logs, got %d", count2)
	}
}

// lockedWriter wraps a writer with a mutex for concurrent test safety
type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
