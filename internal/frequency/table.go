// Package frequency builds the corpus-wide word count table used to decide
// which words survive subsampling.
package frequency

import (
	"cmp"
	"iter"
	"slices"
)

// Table maps words to occurrence counts and remembers the order in which each
// word was first seen, so iteration is deterministic.
type Table struct {
	index  map[string]int
	words  []string
	counts []int64
	total  int64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Add records one occurrence of word.
func (t *Table) Add(word string) {
	t.AddN(word, 1)
}

// AddN records n occurrences of word.
func (t *Table) AddN(word string, n int64) {
	if n <= 0 {
		return
	}
	if i, ok := t.index[word]; ok {
		t.counts[i] += n
	} else {
		t.index[word] = len(t.words)
		t.words = append(t.words, word)
		t.counts = append(t.counts, n)
	}
	t.total += n
}

// Count returns the number of occurrences of word and whether it was seen.
func (t *Table) Count(word string) (int64, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[word]
	if !ok {
		return 0, false
	}
	return t.counts[i], true
}

// Len returns the number of distinct words.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.words)
}

// Total returns the number of word occurrences recorded.
func (t *Table) Total() int64 {
	if t == nil {
		return 0
	}
	return t.total
}

// Merge adds every count of other into t. Words new to t are appended in
// other's first-occurrence order.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for i, word := range other.words {
		t.AddN(word, other.counts[i])
	}
}

// All yields words and counts in first-occurrence order.
func (t *Table) All() iter.Seq2[string, int64] {
	return func(yield func(string, int64) bool) {
		if t == nil {
			return
		}
		for i, word := range t.words {
			if !yield(word, t.counts[i]) {
				return
			}
		}
	}
}

// Equal reports whether both tables hold the same counts in the same order.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() || t.Total() != other.Total() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	return slices.Equal(t.words, other.words) && slices.Equal(t.counts, other.counts)
}

// Entry is a word with its count.
type Entry struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}

// Top returns the n most frequent words. Ties keep first-occurrence order.
// n <= 0 returns every word.
func (t *Table) Top(n int) []Entry {
	entries := make([]Entry, 0, t.Len())
	for word, count := range t.All() {
		entries = append(entries, Entry{Word: word, Count: count})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}
