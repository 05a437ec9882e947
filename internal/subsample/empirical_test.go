package subsample_test

import (
	"math"
	"testing"

	"weeder/internal/subsample"
)

const draws = 20000

func keepRate(t *testing.T, p subsample.Policy, counts table, word string, seed uint64) float64 {
	t.Helper()
	rng := subsample.NewRandom(seed, 0)
	kept := 0
	for range draws {
		if p.Keep(word, counts, rng) == subsample.Kept {
			kept++
		}
	}
	return float64(kept) / draws
}

func TestBelowMinCountNeverKept(t *testing.T) {
	counts := table{"w": 3}
	p := subsample.Policy{Sample: 1e9, MinCount: 4}
	if rate := keepRate(t, p, counts, "w", 1); rate != 0 {
		t.Fatalf("word below min count kept at rate %v", rate)
	}
}

func TestSampleAtOrAboveCountAlwaysKept(t *testing.T) {
	counts := table{"w": 50}
	for _, sample := range []float64{50, 51, 1e6} {
		p := subsample.Policy{Sample: sample, MinCount: 1}
		if rate := keepRate(t, p, counts, "w", 7); rate != 1 {
			t.Fatalf("sample=%v: keep rate %v, want 1", sample, rate)
		}
	}
}

func TestFrequentWordKeptAtExpectedRate(t *testing.T) {
	counts := table{"the": 10000}
	p := subsample.Policy{Sample: 100, MinCount: 1}
	want := p.KeepProbability(10000) // 0.1
	got := keepRate(t, p, counts, "the", 99)
	// five standard deviations of a binomial proportion
	tolerance := 5 * math.Sqrt(want*(1-want)/draws)
	if math.Abs(got-want) > tolerance {
		t.Fatalf("keep rate %v, want %v +/- %v", got, want, tolerance)
	}
}

func TestStreamsAreReproducible(t *testing.T) {
	a := subsample.NewRandom(42, 3)
	b := subsample.NewRandom(42, 3)
	c := subsample.NewRandom(42, 4)
	same, differs := true, false
	for range 32 {
		x, y, z := a.Float64(), b.Float64(), c.Float64()
		if x != y {
			same = false
		}
		if x != z {
			differs = true
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %v outside [0, 1)", x)
		}
	}
	if !same {
		t.Fatal("same seed and stream produced different draws")
	}
	if !differs {
		t.Fatal("different streams produced identical draws")
	}
}

func TestResolveSeed(t *testing.T) {
	if seed, fresh := subsample.ResolveSeed(9); seed != 9 || fresh {
		t.Fatalf("ResolveSeed(9) = %d, %v", seed, fresh)
	}
	if seed, fresh := subsample.ResolveSeed(0); seed == 0 || !fresh {
		t.Fatalf("ResolveSeed(0) = %d, %v", seed, fresh)
	}
}
