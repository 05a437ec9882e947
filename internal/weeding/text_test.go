package weeding_test

import (
	"testing"

	"weeder/internal/frequency"
	"weeder/internal/subsample"
	"weeder/internal/weeding"
)

// constRandom always returns the same draw.
type constRandom float64

func (r constRandom) Float64() float64 { return float64(r) }

// dropWord wraps a table and pretends the named word was never counted.
type dropWord struct {
	*frequency.Table
	word string
}

func (d dropWord) Count(word string) (int64, bool) {
	if word == d.word {
		return 0, false
	}
	return d.Table.Count(word)
}

func TestWeedText(t *testing.T) {
	keepAll := subsample.Policy{Sample: 1e6, MinCount: 1}
	tests := []struct {
		name   string
		text   string
		policy subsample.Policy
		want   string
		counts weeding.Counts
	}{
		{
			name:   "everything kept keeps structure",
			text:   "the cat sat. the dog ran.",
			policy: keepAll,
			want:   "the cat sat. the dog ran.",
			counts: weeding.Counts{Kept: 6},
		},
		{
			name:   "whitespace is normalized",
			text:   "  the\tcat \n sat .  the dog",
			policy: keepAll,
			want:   "the cat sat. the dog.",
			counts: weeding.Counts{Kept: 5},
		},
		{
			name:   "rare sentence contributes nothing",
			text:   "a a a a a. b.",
			policy: subsample.Policy{Sample: 1e6, MinCount: 2},
			want:   "a a a a a.",
			counts: weeding.Counts{Kept: 5, DroppedRare: 1},
		},
		{
			name:   "empty document",
			text:   "",
			policy: keepAll,
			want:   "",
		},
		{
			name:   "only delimiters",
			text:   "...",
			policy: keepAll,
			want:   "",
		},
		{
			name:   "single fully dropped sentence is empty not a period",
			text:   "x y z.",
			policy: subsample.Policy{Sample: 1e6, MinCount: 10},
			want:   "",
			counts: weeding.Counts{DroppedRare: 3},
		},
		{
			name:   "zero sample drops everything",
			text:   "a b. c",
			policy: subsample.Policy{Sample: 0, MinCount: 1},
			want:   "",
			counts: weeding.Counts{DroppedSampled: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := frequency.CountText(tt.text)
			got, counts := weeding.WeedText(tt.text, table, tt.policy, constRandom(0.5))
			if got != tt.want {
				t.Fatalf("WeedText = %q, want %q", got, tt.want)
			}
			if counts != tt.counts {
				t.Fatalf("counts = %+v, want %+v", counts, tt.counts)
			}
		})
	}
}

func TestWeedTextDropsUnknownWords(t *testing.T) {
	text := "keep gone keep. gone"
	lookup := dropWord{Table: frequency.CountText(text), word: "gone"}
	got, counts := weeding.WeedText(text, lookup, subsample.Policy{Sample: 1e6, MinCount: 1}, constRandom(0.5))
	if got != "keep keep." {
		t.Fatalf("WeedText = %q", got)
	}
	if counts.DroppedUnknown != 2 || counts.Kept != 2 || counts.Total() != 4 || counts.Dropped() != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestWeedTextKeepsMiddleSentenceJoins(t *testing.T) {
	text := "a. rare. b"
	table := frequency.CountText("a a. rare. b b")
	got, _ := weeding.WeedText(text, table, subsample.Policy{Sample: 1e6, MinCount: 2}, constRandom(0.5))
	if got != "a. b." {
		t.Fatalf("WeedText = %q, want %q", got, "a. b.")
	}
}

func TestCountsAdd(t *testing.T) {
	c := weeding.Counts{Kept: 1, DroppedRare: 2}
	c.Add(weeding.Counts{Kept: 3, DroppedSampled: 4, DroppedUnknown: 5})
	if c != (weeding.Counts{Kept: 4, DroppedRare: 2, DroppedSampled: 4, DroppedUnknown: 5}) {
		t.Fatalf("unexpected sum: %+v", c)
	}
}
