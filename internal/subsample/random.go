package subsample

import (
	"math/rand/v2"
	"time"
)

// streamMix decorrelates per-document streams that share a seed.
const streamMix = 0x9e3779b97f4a7c15

// NewRandom returns a PCG generator for one stream of a seeded run. Runs that
// share a seed produce identical draws for each stream, independent of the
// order streams are consumed in.
func NewRandom(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream*streamMix+1))
}

// NewSeed returns a non-zero seed for runs that did not ask for one.
func NewSeed() uint64 {
	for {
		if seed := rand.Uint64() ^ uint64(time.Now().UnixNano()); seed != 0 {
			return seed
		}
	}
}

// ResolveSeed returns seed, or a fresh one when seed is zero. The second
// result reports whether a fresh seed was chosen.
func ResolveSeed(seed uint64) (uint64, bool) {
	if seed != 0 {
		return seed, false
	}
	return NewSeed(), true
}
