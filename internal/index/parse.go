package index

import (
	"strings"

	"github.com/datara-labs/datara-bot/internal/sheets"
	"github.com/datara-labs/datara-bot/internal/storage"
	"github.com/datara-labs/datara-bot/internal/stringutil"
)

// splitKeywords comma-splits a keyword cell and normalizes each token.
// Empty and duplicate tokens are dropped, source order kept.
func splitKeywords(cell string) []string {
	var keywords []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(cell, ",") {
		kw := stringutil.Normalize(raw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords
}

// ParseInfoRows converts info sheet rows into records. Keywords are
// comma-split and normalized; the answer comes from the "answer" column
// with "info" and "information" as fallbacks. Rows without any usable
// keyword or without an answer are skipped.
func ParseInfoRows(rows []sheets.Row) []storage.InfoRecord {
	records := make([]storage.InfoRecord, 0, len(rows))
	for _, row := range rows {
		answer := row.Get("answer")
		if answer == "" {
			answer = row.Get("info")
		}
		if answer == "" {
			answer = row.Get("information")
		}
		if answer == "" {
			continue
		}

		keywords := splitKeywords(row.Get("keywords"))
		if len(keywords) == 0 {
			continue
		}

		records = append(records, storage.InfoRecord{Keywords: keywords, Answer: answer})
	}
	return records
}

// ParseDocumentRows converts pdf sheet rows into records. The keyword
// cell is comma-split the same way as info keywords; rows without any
// usable keyword or without a file URL are skipped.
func ParseDocumentRows(rows []sheets.Row) []storage.DocumentRecord {
	records := make([]storage.DocumentRecord, 0, len(rows))
	for _, row := range rows {
		fileURL := row.Get("file_url")
		if fileURL == "" {
			continue
		}

		keywords := splitKeywords(row.Get("keyword"))
		if len(keywords) == 0 {
			continue
		}

		records = append(records, storage.DocumentRecord{Keywords: keywords, FileURL: fileURL})
	}
	return records
}
