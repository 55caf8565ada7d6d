// Package fuzzy provides approximate string matching for keyword
// suggestions. Similarity is the Ratcliff/Obershelp ratio: twice the
// number of matching characters divided by the total length of both
// strings, with matches found by recursively locating the longest
// common substring.
package fuzzy

import "sort"

const (
	// DefaultCutoff is the minimum similarity for a suggestion.
	DefaultCutoff = 0.5

	// DefaultLimit is the maximum number of suggestions returned.
	DefaultLimit = 3
)

// Ratio computes the Ratcliff/Obershelp similarity of a and b in [0, 1].
// Two empty strings are considered identical.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingRunes(ar, br)) / float64(total)
}

// matchingRunes counts matching characters per Ratcliff/Obershelp:
// the longest common substring plus, recursively, the matches in the
// unmatched regions to its left and right.
func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

// longestCommonSubstring returns the start offsets and length of the
// longest common substring of a and b. Ties go to the earliest match.
func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	lengths := make(map[int]int, len(b))
	for i := range a {
		next := make(map[int]int, len(b))
		for j := range b {
			if b[j] != a[i] {
				continue
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > size {
				ai = i - k + 1
				bi = j - k + 1
				size = k
			}
		}
		lengths = next
	}
	return ai, bi, size
}

type scored struct {
	value string
	score float64
}

// Suggest returns up to limit candidates whose similarity to query is at
// least cutoff, ordered from most to least similar. Duplicate candidates
// are considered once. A non-positive limit or cutoff falls back to the
// package defaults.
func Suggest(query string, candidates []string, limit int, cutoff float64) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}

	seen := make(map[string]struct{}, len(candidates))
	matches := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		if score := Ratio(query, c); score >= cutoff {
			matches = append(matches, scored{value: c, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.value
	}
	return result
}
