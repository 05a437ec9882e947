// Package subsample decides which word occurrences survive weeding.
//
// A word seen f times in the corpus is kept when a uniform draw u in [0, 1)
// satisfies u > 1 - sqrt(sample/f) and f is at least the minimum count. Words
// at or below the sample scale are therefore (almost surely) always kept and
// very frequent words are kept with probability sqrt(sample/f).
package subsample

import "math"

// Lookup reports the corpus count of a word.
type Lookup interface {
	Count(word string) (int64, bool)
}

// Random is a source of uniform draws in [0, 1).
type Random interface {
	Float64() float64
}

// Decision is the outcome of Keep for one word occurrence.
type Decision uint8

const (
	// Kept means the occurrence stays in the output.
	Kept Decision = iota
	// DroppedUnknown means the word is absent from the frequency table.
	DroppedUnknown
	// DroppedRare means the word occurs fewer than MinCount times.
	DroppedRare
	// DroppedSampled means the random draw fell at or below the threshold.
	DroppedSampled
)

func (d Decision) String() string {
	switch d {
	case Kept:
		return "kept"
	case DroppedUnknown:
		return "dropped_unknown"
	case DroppedRare:
		return "dropped_rare"
	case DroppedSampled:
		return "dropped_sampled"
	default:
		return "unknown"
	}
}

// Policy holds the subsampling hyperparameters. Neither field is validated:
// Sample == 0 drops every word, Sample < 0 yields a NaN threshold that also
// drops every word, and a non-positive MinCount disables the floor.
type Policy struct {
	Sample   float64
	MinCount int64
}

// Threshold returns 1 - sqrt(sample/f), the value a draw must exceed for a
// word seen f times to be kept.
func (p Policy) Threshold(f int64) float64 {
	return 1 - math.Sqrt(p.Sample/float64(f))
}

// KeepProbability returns the chance that one occurrence of a word seen f
// times survives, ignoring the minimum count floor.
func (p Policy) KeepProbability(f int64) float64 {
	threshold := p.Threshold(f)
	switch {
	case math.IsNaN(threshold), threshold >= 1:
		return 0
	case threshold <= 0:
		return 1
	default:
		return 1 - threshold
	}
}

// Keep decides the fate of one occurrence of word. Unknown words are dropped
// without consuming a draw; every known word consumes exactly one draw, even
// when the minimum count floor then drops it.
func (p Policy) Keep(word string, lookup Lookup, rng Random) Decision {
	f, ok := lookup.Count(word)
	if !ok {
		return DroppedUnknown
	}
	u := rng.Float64()
	if f < p.MinCount {
		return DroppedRare
	}
	if u > p.Threshold(f) {
		return Kept
	}
	return DroppedSampled
}
