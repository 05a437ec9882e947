package weeding

import (
	"strings"

	"weeder/internal/subsample"
	"weeder/internal/tokenize"
)

const (
	wordSeparator     = " "
	sentenceSeparator = ". "
	documentTerminal  = "."
)

// Counts tallies retention decisions.
type Counts struct {
	Kept           int64 `json:"kept"`
	DroppedUnknown int64 `json:"dropped_unknown"`
	DroppedRare    int64 `json:"dropped_rare"`
	DroppedSampled int64 `json:"dropped_sampled"`
}

// Record adds one decision.
func (c *Counts) Record(d subsample.Decision) {
	switch d {
	case subsample.Kept:
		c.Kept++
	case subsample.DroppedUnknown:
		c.DroppedUnknown++
	case subsample.DroppedRare:
		c.DroppedRare++
	case subsample.DroppedSampled:
		c.DroppedSampled++
	}
}

// Add folds other into c.
func (c *Counts) Add(other Counts) {
	c.Kept += other.Kept
	c.DroppedUnknown += other.DroppedUnknown
	c.DroppedRare += other.DroppedRare
	c.DroppedSampled += other.DroppedSampled
}

// Dropped returns the number of dropped occurrences.
func (c Counts) Dropped() int64 {
	return c.DroppedUnknown + c.DroppedRare + c.DroppedSampled
}

// Total returns the number of decided occurrences.
func (c Counts) Total() int64 {
	return c.Kept + c.Dropped()
}

// WeedText filters one document. Surviving words of a sentence are joined by a
// single space, surviving sentences by ". ", and a final "." closes the text
// when at least one sentence survives. A text with no surviving word becomes
// the empty string.
func WeedText(text string, lookup subsample.Lookup, policy subsample.Policy, rng subsample.Random) (string, Counts) {
	var (
		counts    Counts
		b         strings.Builder
		kept      int
		sentences int
	)
	for sentence := range tokenize.Sentences(text) {
		kept = 0
		for word := range tokenize.Words(sentence) {
			decision := policy.Keep(word, lookup, rng)
			counts.Record(decision)
			if decision != subsample.Kept {
				continue
			}
			switch {
			case kept > 0:
				b.WriteString(wordSeparator)
			case sentences > 0:
				b.WriteString(sentenceSeparator)
			}
			b.WriteString(word)
			kept++
		}
		if kept > 0 {
			sentences++
		}
	}
	if sentences == 0 {
		return "", counts
	}
	b.WriteString(documentTerminal)
	return b.String(), counts
}
