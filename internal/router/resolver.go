package router

import (
	"strings"

	"github.com/datara-labs/datara-bot/internal/index"
)

// MatchKind tags the result of a keyword scan.
type MatchKind int

const (
	// NoMatch means neither sheet matched the query.
	NoMatch MatchKind = iota
	// InfoMatch means one or more info records matched.
	InfoMatch
	// DocumentMatch means one or more document records matched.
	DocumentMatch
)

// InfoHit is a matched info record: the keyword that hit and its answer.
type InfoHit struct {
	Keyword string
	Answer  string
}

// DocumentHit is a matched document record.
type DocumentHit struct {
	Keyword string
	FileURL string
}

// MatchResult holds every record that matched a query. Exactly one of
// Infos or Documents is populated; info matches take absolute priority
// and suppress the document scan entirely.
type MatchResult struct {
	Kind      MatchKind
	Infos     []InfoHit
	Documents []DocumentHit
}

// Resolve scans the snapshot for the normalized query. A keyword hits
// when either string contains the other. Within one record the first
// hitting keyword wins, but the scan continues across all records and
// accumulates every match.
func Resolve(normalized string, snap index.Snapshot) MatchResult {
	if normalized == "" {
		return MatchResult{Kind: NoMatch}
	}

	var infos []InfoHit
	for _, rec := range snap.Infos {
		for _, keyword := range rec.Keywords {
			if contains(normalized, keyword) {
				infos = append(infos, InfoHit{Keyword: keyword, Answer: rec.Answer})
				break
			}
		}
	}
	if len(infos) > 0 {
		return MatchResult{Kind: InfoMatch, Infos: infos}
	}

	var docs []DocumentHit
	for _, rec := range snap.Documents {
		for _, keyword := range rec.Keywords {
			if contains(normalized, keyword) {
				docs = append(docs, DocumentHit{Keyword: keyword, FileURL: rec.FileURL})
				break
			}
		}
	}
	if len(docs) > 0 {
		return MatchResult{Kind: DocumentMatch, Documents: docs}
	}

	return MatchResult{Kind: NoMatch}
}

// contains is the bidirectional containment test. Generic keywords can
// match unrelated long queries; that recall-over-precision tradeoff is
// deliberate.
func contains(query, keyword string) bool {
	if keyword == "" {
		return false
	}
	return strings.Contains(query, keyword) || strings.Contains(keyword, query)
}
