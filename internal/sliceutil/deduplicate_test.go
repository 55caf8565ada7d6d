package sliceutil

import (
	"reflect"
	"strconv"
	"testing"
)

// keywordEntry mirrors how the index carries a keyword with the answer
// it resolves to.
type keywordEntry struct {
	Keyword string
	Answer  string
}

func TestDeduplicate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		entries []keywordEntry
		want    []keywordEntry
	}{
		{
			name: "No duplicates",
			entries: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
				{Keyword: "hostel", Answer: "B"},
				{Keyword: "fees", Answer: "C"},
			},
			want: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
				{Keyword: "hostel", Answer: "B"},
				{Keyword: "fees", Answer: "C"},
			},
		},
		{
			name: "Keyword in both sheets keeps the first",
			entries: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
				{Keyword: "hostel", Answer: "B"},
				{Keyword: "exam", Answer: "C"},
				{Keyword: "fees", Answer: "D"},
			},
			want: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
				{Keyword: "hostel", Answer: "B"},
				{Keyword: "fees", Answer: "D"},
			},
		},
		{
			name: "All duplicates",
			entries: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
				{Keyword: "exam", Answer: "B"},
				{Keyword: "exam", Answer: "C"},
			},
			want: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
			},
		},
		{
			name:    "Empty slice",
			entries: []keywordEntry{},
			want:    []keywordEntry{},
		},
		{
			name: "Single entry",
			entries: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
			},
			want: []keywordEntry{
				{Keyword: "exam", Answer: "A"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Deduplicate(tt.entries, func(e keywordEntry) string { return e.Keyword })
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Deduplicate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Suggestion quality depends on sheet order surviving deduplication,
// so first occurrences must come out in their original positions.
func TestDeduplicatePreservesOrder(t *testing.T) {
	t.Parallel()
	entries := []keywordEntry{
		{Keyword: "fees", Answer: "C"},
		{Keyword: "exam", Answer: "A"},
		{Keyword: "hostel", Answer: "B"},
		{Keyword: "fees", Answer: "C2"},
		{Keyword: "exam", Answer: "A2"},
	}

	got := Deduplicate(entries, func(e keywordEntry) string { return e.Keyword })

	want := []keywordEntry{
		{Keyword: "fees", Answer: "C"},
		{Keyword: "exam", Answer: "A"},
		{Keyword: "hostel", Answer: "B"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate() = %v, want %v", got, want)
	}
}

func TestDeduplicateStrings(t *testing.T) {
	t.Parallel()
	keywords := []string{"exam", "hostel", "exam", "syllabus"}

	got := Deduplicate(keywords, func(k string) string { return k })

	want := []string{"exam", "hostel", "syllabus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate() = %v, want %v", got, want)
	}
}

func BenchmarkDeduplicate(b *testing.B) {
	keywords := make([]string, 1000)
	for i := 0; i < 1000; i++ {
		keywords[i] = "keyword" + strconv.Itoa(i%100)
	}

	keyFunc := func(k string) string { return k }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Deduplicate(keywords, keyFunc)
	}
}
