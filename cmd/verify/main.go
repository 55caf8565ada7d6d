// Command verify checks the persisted keyword snapshot for consistency:
// normalized keywords, non-empty answers and resolvable document URLs.
// Intended to run against the data directory of a deployed bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/drive"
	"github.com/datara-labs/datara-bot/internal/storage"
	"github.com/datara-labs/datara-bot/internal/stringutil"
)

// Verification results
type verifyResult struct {
	name    string
	passed  bool
	message string
}

func main() {
	fmt.Println("🔍 Datara Bot - Snapshot Consistency Verification Tool")
	fmt.Println("======================================================")

	cfg, err := config.LoadForMode(config.WarmupMode)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	infos, docs, fetchedAt, err := db.LoadSnapshot(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		fmt.Println("❌ No snapshot persisted, run the warmup tool first")
		os.Exit(1)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load snapshot: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n📦 Snapshot: %d info rows, %d document rows, fetched %s\n",
		len(infos), len(docs), fetchedAt.Format("2006-01-02 15:04:05"))

	results := []verifyResult{}
	results = append(results, verifyInfoRows(infos)...)
	results = append(results, verifyDocumentRows(docs)...)
	results = append(results, verifyKeywordOverlap(infos, docs))

	// Print results
	fmt.Println("\n📊 Verification Results:")
	fmt.Println("========================")

	passedCount := 0
	failedCount := 0

	for _, result := range results {
		status := "❌"
		if result.passed {
			status = "✅"
			passedCount++
		} else {
			failedCount++
		}
		fmt.Printf("%s %s: %s\n", status, result.name, result.message)
	}

	fmt.Printf("\n📈 Summary: %d passed, %d failed\n", passedCount, failedCount)

	if failedCount > 0 {
		os.Exit(1)
	}
}

// verifyInfoRows checks that every info row has normalized keywords and
// a non-empty answer
func verifyInfoRows(infos []storage.InfoRecord) []verifyResult {
	var badKeywords, emptyAnswers int
	for _, rec := range infos {
		if len(rec.Keywords) == 0 {
			badKeywords++
			continue
		}
		for _, kw := range rec.Keywords {
			if kw == "" || stringutil.Normalize(kw) != kw {
				badKeywords++
				break
			}
		}
		if strings.TrimSpace(rec.Answer) == "" {
			emptyAnswers++
		}
	}

	return []verifyResult{
		{
			name:    "Info keywords normalized",
			passed:  badKeywords == 0,
			message: fmt.Sprintf("%d/%d rows with empty or non-normalized keywords", badKeywords, len(infos)),
		},
		{
			name:    "Info answers present",
			passed:  emptyAnswers == 0,
			message: fmt.Sprintf("%d/%d rows with empty answers", emptyAnswers, len(infos)),
		},
	}
}

// verifyDocumentRows checks that every document row has a normalized
// keyword and a URL the downloader can handle
func verifyDocumentRows(docs []storage.DocumentRecord) []verifyResult {
	var badKeywords, badURLs, nonDrive int
	for _, rec := range docs {
		if len(rec.Keywords) == 0 {
			badKeywords++
		}
		for _, kw := range rec.Keywords {
			if kw == "" || stringutil.Normalize(kw) != kw {
				badKeywords++
				break
			}
		}
		switch {
		case !strings.HasPrefix(rec.FileURL, "http://") && !strings.HasPrefix(rec.FileURL, "https://"):
			badURLs++
		case drive.FileID(rec.FileURL) == "":
			// Non-Drive URLs are fetched as-is, flag them for review
			nonDrive++
		}
	}

	results := []verifyResult{
		{
			name:    "Document keywords normalized",
			passed:  badKeywords == 0,
			message: fmt.Sprintf("%d/%d rows with empty or non-normalized keywords", badKeywords, len(docs)),
		},
		{
			name:    "Document URLs fetchable",
			passed:  badURLs == 0,
			message: fmt.Sprintf("%d/%d rows with non-HTTP URLs", badURLs, len(docs)),
		},
	}
	if nonDrive > 0 {
		results = append(results, verifyResult{
			name:    "Document URLs on Drive",
			passed:  true,
			message: fmt.Sprintf("%d/%d rows point outside Google Drive (fetched as-is)", nonDrive, len(docs)),
		})
	}
	return results
}

// verifyKeywordOverlap reports document keywords shadowed by info rows.
// Info matches take priority, so a shadowed document is unreachable.
func verifyKeywordOverlap(infos []storage.InfoRecord, docs []storage.DocumentRecord) verifyResult {
	infoKeywords := make(map[string]struct{})
	for _, rec := range infos {
		for _, kw := range rec.Keywords {
			infoKeywords[kw] = struct{}{}
		}
	}

	var shadowed []string
	for _, rec := range docs {
		for _, kw := range rec.Keywords {
			if _, ok := infoKeywords[kw]; ok {
				shadowed = append(shadowed, kw)
			}
		}
	}

	if len(shadowed) > 0 {
		return verifyResult{
			name:    "Document keywords reachable",
			passed:  false,
			message: fmt.Sprintf("shadowed by info rows: %s", strings.Join(shadowed, ", ")),
		}
	}
	return verifyResult{
		name:    "Document keywords reachable",
		passed:  true,
		message: fmt.Sprintf("no overlap across %d document rows", len(docs)),
	}
}
