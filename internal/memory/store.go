// Package memory tracks per-user conversation state for the AI fallback.
// Each user has a rolling summary plus a short log of recent exchanges.
// When the log reaches the configured threshold it is compacted: the
// summary is replaced wholesale and the log is cleared.
package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultThreshold is the number of log entries that triggers compaction.
const DefaultThreshold = 8

// Role identifies the author of a log entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Entry is a single conversation exchange.
type Entry struct {
	Role Role
	Text string
	At   time.Time
}

// Conversation is a point-in-time copy of a user's state.
type Conversation struct {
	Summary string
	Entries []Entry
}

// TranscriptLines renders the log as "User: ..."/"Bot: ..." lines for
// prompt building.
func (c Conversation) TranscriptLines() []string {
	lines := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		label := "User"
		if e.Role == RoleBot {
			label = "Bot"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, e.Text))
	}
	return lines
}

// Transcript renders the log as a newline-joined block.
func (c Conversation) Transcript() string {
	return strings.Join(c.TranscriptLines(), "\n")
}

type conversation struct {
	summary string
	entries []Entry
}

// Store holds conversation state for all users. It is safe for
// concurrent use.
type Store struct {
	mu            sync.RWMutex
	conversations map[int64]*conversation
	threshold     int
}

// NewStore creates a store that compacts after threshold log entries.
// A non-positive threshold falls back to DefaultThreshold.
func NewStore(threshold int) *Store {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Store{
		conversations: make(map[int64]*conversation),
		threshold:     threshold,
	}
}

// Record appends an entry to the user's log.
func (s *Store) Record(userID int64, role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.conversations[userID]
	if c == nil {
		c = &conversation{}
		s.conversations[userID] = c
	}
	c.entries = append(c.entries, Entry{Role: role, Text: text, At: time.Now()})
}

// Snapshot returns a copy of the user's conversation state.
func (s *Store) Snapshot(userID int64) Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.conversations[userID]
	if c == nil {
		return Conversation{}
	}
	entries := make([]Entry, len(c.entries))
	copy(entries, c.entries)
	return Conversation{Summary: c.summary, Entries: entries}
}

// NeedsCompaction reports whether the user's log has reached the
// compaction threshold.
func (s *Store) NeedsCompaction(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.conversations[userID]
	return c != nil && len(c.entries) >= s.threshold
}

// Compact replaces the user's summary and clears the log. The previous
// summary is discarded; callers fold it into the new one before calling.
func (s *Store) Compact(userID int64, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.conversations[userID]
	if c == nil {
		c = &conversation{}
		s.conversations[userID] = c
	}
	c.summary = summary
	c.entries = nil
}

// Forget removes all state for the user.
func (s *Store) Forget(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, userID)
}

// Len returns the number of tracked users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// Threshold returns the compaction threshold.
func (s *Store) Threshold() int {
	return s.threshold
}
