package storage

import "errors"

// Common errors
var (
	// ErrNoSnapshot is returned when no snapshot has been persisted yet
	ErrNoSnapshot = errors.New("no snapshot persisted")
)

// InfoRecord is a persisted informational keyword row. Keywords are
// normalized and ordered as they appeared in the source sheet.
type InfoRecord struct {
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}

// DocumentRecord is a persisted document keyword row. Like InfoRecord,
// the keyword cell is comma-split and every token can match.
type DocumentRecord struct {
	Keywords []string `json:"keywords"`
	FileURL  string   `json:"file_url"`
}
