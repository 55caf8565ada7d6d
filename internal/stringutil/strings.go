// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes user text for keyword matching: NFKC folding,
// lowercasing, replacing anything outside [a-z0-9 ] with a space, then
// collapsing runs of whitespace. The result of normalizing twice equals
// normalizing once.
//
// Example:
//
//	Normalize("  Exam  Schedule!? ") returns "exam schedule"
//	Normalize("HOSTEL-fees") returns "hostel fees"
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// WordCount reports the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// IsNumeric checks if a string contains only digits.
// Returns false for empty strings.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
