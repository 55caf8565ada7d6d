package memory

import (
	"fmt"
	"sync"
	"testing"
)

func TestStore_RecordAndSnapshot(t *testing.T) {
	s := NewStore(8)

	s.Record(1, RoleUser, "exam schedule")
	s.Record(1, RoleBot, "The exam starts on Monday.")

	snap := s.Snapshot(1)
	if snap.Summary != "" {
		t.Errorf("expected empty summary, got %q", snap.Summary)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap.Entries))
	}
	if snap.Entries[0].Role != RoleUser || snap.Entries[0].Text != "exam schedule" {
		t.Errorf("unexpected first entry: %+v", snap.Entries[0])
	}
	if snap.Entries[1].Role != RoleBot {
		t.Errorf("unexpected second entry role: %s", snap.Entries[1].Role)
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore(8)
	s.Record(1, RoleUser, "hello")

	snap := s.Snapshot(1)
	snap.Entries[0].Text = "mutated"

	if got := s.Snapshot(1).Entries[0].Text; got != "hello" {
		t.Errorf("snapshot mutation leaked into store: %q", got)
	}
}

func TestStore_UnknownUser(t *testing.T) {
	s := NewStore(8)

	snap := s.Snapshot(42)
	if snap.Summary != "" || len(snap.Entries) != 0 {
		t.Errorf("expected empty conversation, got %+v", snap)
	}
	if s.NeedsCompaction(42) {
		t.Error("unknown user should not need compaction")
	}
}

func TestStore_NeedsCompaction(t *testing.T) {
	s := NewStore(8)

	for i := 0; i < 7; i++ {
		s.Record(1, RoleUser, fmt.Sprintf("message %d", i))
	}
	if s.NeedsCompaction(1) {
		t.Error("7 entries should not trigger compaction with threshold 8")
	}

	s.Record(1, RoleBot, "message 8")
	if !s.NeedsCompaction(1) {
		t.Error("8 entries should trigger compaction with threshold 8")
	}
}

func TestStore_Compact(t *testing.T) {
	s := NewStore(4)

	for i := 0; i < 4; i++ {
		s.Record(1, RoleUser, fmt.Sprintf("message %d", i))
	}

	s.Compact(1, "the user keeps asking about exams")

	snap := s.Snapshot(1)
	if snap.Summary != "the user keeps asking about exams" {
		t.Errorf("summary = %q", snap.Summary)
	}
	if len(snap.Entries) != 0 {
		t.Errorf("expected cleared log, got %d entries", len(snap.Entries))
	}
	if s.NeedsCompaction(1) {
		t.Error("compacted conversation should not need compaction")
	}

	// Summary is replaced wholesale on the next compaction
	s.Record(1, RoleUser, "hostel fees")
	s.Compact(1, "now asking about hostel fees")
	if got := s.Snapshot(1).Summary; got != "now asking about hostel fees" {
		t.Errorf("summary = %q, want replacement", got)
	}
}

func TestStore_Forget(t *testing.T) {
	s := NewStore(8)
	s.Record(1, RoleUser, "hello")
	s.Forget(1)

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d users", s.Len())
	}
}

func TestStore_DefaultThreshold(t *testing.T) {
	s := NewStore(0)
	if s.Threshold() != DefaultThreshold {
		t.Errorf("threshold = %d, want %d", s.Threshold(), DefaultThreshold)
	}
}

func TestStore_UsersAreIndependent(t *testing.T) {
	s := NewStore(8)
	s.Record(1, RoleUser, "from user one")
	s.Record(2, RoleUser, "from user two")

	if got := s.Snapshot(1).Entries[0].Text; got != "from user one" {
		t.Errorf("user 1 entry = %q", got)
	}
	if got := s.Snapshot(2).Entries[0].Text; got != "from user two" {
		t.Errorf("user 2 entry = %q", got)
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := int64(i % 5)
			s.Record(userID, RoleUser, "concurrent message")
			_ = s.Snapshot(userID)
			_ = s.NeedsCompaction(userID)
		}(i)
	}
	wg.Wait()

	total := 0
	for id := int64(0); id < 5; id++ {
		total += len(s.Snapshot(id).Entries)
	}
	if total != 50 {
		t.Errorf("expected 50 recorded entries, got %d", total)
	}
}

func TestConversation_Transcript(t *testing.T) {
	c := Conversation{
		Entries: []Entry{
			{Role: RoleUser, Text: "exam schedule"},
			{Role: RoleBot, Text: "The exam starts on Monday."},
		},
	}

	want := "User: exam schedule\nBot: The exam starts on Monday."
	if got := c.Transcript(); got != want {
		t.Errorf("Transcript() = %q, want %q", got, want)
	}
}
