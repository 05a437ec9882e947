package weeding_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weeder/internal/faults"
	"weeder/internal/sink"
	"weeder/internal/source"
	"weeder/internal/subsample"
	"weeder/internal/weeding"
)

func run(t *testing.T, src source.Source, opts weeding.Options) (*sink.Memory, weeding.Summary) {
	t.Helper()
	out := sink.NewMemory()
	summary, err := weeding.New(opts).Run(context.Background(), src, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out, summary
}

func artifact(t *testing.T, out *sink.Memory, name string) string {
	t.Helper()
	text, ok := out.Get(name + sink.ArtifactExtension)
	if !ok {
		t.Fatalf("artifact %s missing; have %v", name, out.Files())
	}
	return text
}

func TestRunKeepsEverythingWithHugeSample(t *testing.T) {
	src := source.NewMemory(source.Document{Name: "story", Text: "the cat sat. the dog ran."})
	for seed := uint64(1); seed <= 50; seed++ {
		out, summary := run(t, src, weeding.Options{
			Policy: subsample.Policy{Sample: 1e6, MinCount: 1},
			Seed:   seed,
		})
		if got := artifact(t, out, "story"); got != "the cat sat. the dog ran." {
			t.Fatalf("seed %d: output %q", seed, got)
		}
		if summary.Counts.Kept != 6 || summary.Tokens != 6 || summary.Vocabulary != 5 {
			t.Fatalf("seed %d: unexpected summary %+v", seed, summary)
		}
	}
}

func TestRunDropsRareSentence(t *testing.T) {
	src := source.NewMemory(source.Document{Name: "d", Text: "a a a a a. b."})
	for _, sample := range []float64{1e-3, 5, 1e6} {
		out, summary := run(t, src, weeding.Options{
			Policy: subsample.Policy{Sample: sample, MinCount: 2},
			Seed:   7,
		})
		got := artifact(t, out, "d")
		if strings.Contains(got, "b") {
			t.Fatalf("sample=%v: rare word survived in %q", sample, got)
		}
		if summary.Counts.DroppedRare != 1 {
			t.Fatalf("sample=%v: dropped_rare = %d", sample, summary.Counts.DroppedRare)
		}
	}
}

func TestRunWritesEmptyArtifacts(t *testing.T) {
	src := source.NewMemory(
		source.Document{Name: "empty", Text: ""},
		source.Document{Name: "gone", Text: "lonely words."},
	)
	out, summary := run(t, src, weeding.Options{Policy: subsample.Policy{Sample: 1e6, MinCount: 2}, Seed: 1})
	if got := artifact(t, out, "empty"); got != "" {
		t.Fatalf("empty document produced %q", got)
	}
	if got := artifact(t, out, "gone"); got != "" {
		t.Fatalf("fully dropped document produced %q, want empty string", got)
	}
	if summary.Documents != 2 || out.Writes() != 2 || out.Prepared() != 1 {
		t.Fatalf("documents=%d writes=%d prepared=%d", summary.Documents, out.Writes(), out.Prepared())
	}
}

func bigCorpus() *source.Memory {
	docs := make([]source.Document, 60)
	for i := range docs {
		var b strings.Builder
		for j := range 40 {
			fmt.Fprintf(&b, "the w%d of%d x. ", (i+j)%11, j%4)
		}
		docs[i] = source.Document{Name: fmt.Sprintf("doc%02d", i), Text: b.String()}
	}
	return source.NewMemory(docs...)
}

func TestSeededRunIsReproducibleAcrossWorkerCounts(t *testing.T) {
	src := bigCorpus()
	policy := subsample.Policy{Sample: 20, MinCount: 3}
	reference, refSummary := run(t, src, weeding.Options{Policy: policy, Seed: 1234, Workers: 1})

	for _, workers := range []int{2, 8} {
		out, summary := run(t, src, weeding.Options{Policy: policy, Seed: 1234, Workers: workers})
		for _, file := range reference.Files() {
			want, _ := reference.Get(file)
			got, _ := out.Get(file)
			if got != want {
				t.Fatalf("workers=%d: %s differs", workers, file)
			}
		}
		if summary.Counts != refSummary.Counts {
			t.Fatalf("workers=%d: counts %+v, want %+v", workers, summary.Counts, refSummary.Counts)
		}
	}

	other, _ := run(t, src, weeding.Options{Policy: policy, Seed: 4321, Workers: 1})
	differs := false
	for _, file := range reference.Files() {
		a, _ := reference.Get(file)
		b, _ := other.Get(file)
		if a != b {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatal("different seeds produced identical output")
	}
	if refSummary.Counts.Total() != refSummary.Tokens {
		t.Fatalf("every token needs one decision: %d decisions for %d tokens", refSummary.Counts.Total(), refSummary.Tokens)
	}
}

func TestRunReportsChosenSeed(t *testing.T) {
	_, summary := run(t, source.FromTexts("a b"), weeding.Options{Policy: subsample.Policy{Sample: 1, MinCount: 1}})
	if summary.Seed == 0 {
		t.Fatal("seed 0 should be replaced by a fresh seed")
	}
}

// mutatingSource returns different text on its second walk.
type mutatingSource struct {
	walks int
	extra bool
}

func (m *mutatingSource) Count() int { return 1 }

func (m *mutatingSource) Walk(ctx context.Context, fn func(source.Document) error) error {
	m.walks++
	text := "stable text"
	if m.walks > 1 && !m.extra {
		text = "edited text"
	}
	if err := fn(source.Document{Index: 0, Name: "d", Text: text}); err != nil {
		return err
	}
	if m.walks > 1 && m.extra {
		return fn(source.Document{Index: 1, Name: "new", Text: "late arrival"})
	}
	return nil
}

func TestRunDetectsChangedSource(t *testing.T) {
	for _, src := range []*mutatingSource{{}, {extra: true}} {
		for _, workers := range []int{1, 4} {
			src.walks = 0
			_, err := weeding.New(weeding.Options{Policy: subsample.Policy{Sample: 1, MinCount: 1}, Seed: 1, Workers: workers}).
				Run(context.Background(), src, sink.NewMemory())
			if !errors.Is(err, faults.ErrSourceChanged) {
				t.Fatalf("extra=%v workers=%d: expected ErrSourceChanged, got %v", src.extra, workers, err)
			}
		}
	}
}

// shortSource drops its last document on the second walk.
type shortSource struct {
	*source.Memory
	walks int
}

func (s *shortSource) Walk(ctx context.Context, fn func(source.Document) error) error {
	s.walks++
	limit := s.Memory.Count()
	if s.walks > 1 {
		limit--
	}
	n := 0
	return s.Memory.Walk(ctx, func(doc source.Document) error {
		if n >= limit {
			return nil
		}
		n++
		return fn(doc)
	})
}

func TestRunDetectsShortReplay(t *testing.T) {
	src := &shortSource{Memory: source.FromTexts("a", "b")}
	_, err := weeding.New(weeding.Options{Policy: subsample.Policy{Sample: 1, MinCount: 1}, Seed: 1}).
		Run(context.Background(), src, sink.NewMemory())
	if !errors.Is(err, faults.ErrSourceChanged) {
		t.Fatalf("expected ErrSourceChanged, got %v", err)
	}
}

func TestRunStopsOnSinkFailure(t *testing.T) {
	root := t.TempDir()
	out := sink.NewDirectory(filepath.Join(root, "weeded"), sink.Options{OwnerUID: -1, OwnerGID: -1})
	src := source.NewMemory(
		source.Document{Name: "first", Text: "a b"},
		source.Document{Name: "bad/name", Text: "c d"},
		source.Document{Name: "third", Text: "e f"},
	)
	_, err := weeding.New(weeding.Options{Policy: subsample.Policy{Sample: 1e6, MinCount: 1}, Seed: 3}).
		Run(context.Background(), src, out)
	if !errors.Is(err, faults.ErrSink) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "weeded", "first.txt")); err != nil {
		t.Fatalf("earlier artifact must not be rolled back: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "weeded", "third.txt")); !os.IsNotExist(err) {
		t.Fatalf("sequential run must stop at the failing document, stat err = %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := weeding.New(weeding.Options{Seed: 1}).Run(ctx, source.FromTexts("a"), sink.NewMemory())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
