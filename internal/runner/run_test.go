package runner_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weeder/internal/faults"
	"weeder/internal/history"
	"weeder/internal/runner"
	"weeder/internal/sink"
	"weeder/internal/testsupport"
)

func quiet() runner.Options {
	return runner.Options{ConsoleLog: "none", ProgressWriter: io.Discard}
}

func TestRunWeedsCorpusAndRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPolicy(1e6, 2), testsupport.WithWorkers(3))
	testsupport.WriteCorpus(t, cfg.Paths.InputDir, map[string]string{
		"one":   "the cat sat. the dog ran.",
		"two":   "a a a a a. b.",
		"empty": "",
	})
	testsupport.MkdirAll(t, filepath.Join(cfg.Paths.OutputDir, "stale"))

	outcome, err := runner.Run(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// "the" is the only word of "one" seen at least twice in the corpus.
	if got := testsupport.ReadArtifact(t, cfg.Paths.OutputDir, "one"); got != "the. the." {
		t.Fatalf("one.txt = %q", got)
	}
	if got := testsupport.ReadArtifact(t, cfg.Paths.OutputDir, "two"); got != "a a a a a." {
		t.Fatalf("two.txt = %q", got)
	}
	if got := testsupport.ReadArtifact(t, cfg.Paths.OutputDir, "empty"); got != "" {
		t.Fatalf("empty.txt = %q", got)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "stale")); !os.IsNotExist(err) {
		t.Fatalf("stale output must be cleared, stat err = %v", err)
	}
	if outcome.Summary.Documents != 3 || outcome.Summary.Seed != 1 {
		t.Fatalf("unexpected summary: %+v", outcome.Summary)
	}

	if _, err := os.Stat(outcome.LogPath); err != nil {
		t.Fatalf("run log missing: %v", err)
	}
	data, _ := os.ReadFile(outcome.LogPath)
	if !strings.Contains(string(data), outcome.RunID) {
		t.Fatal("run log lines should carry the run id")
	}
	if target, err := os.Readlink(filepath.Join(cfg.LogDir(), "weeder.log")); err != nil || target != outcome.LogPath {
		t.Fatalf("weeder.log pointer = %q, %v", target, err)
	}

	store := testsupport.MustOpenHistory(t, cfg)
	run, err := store.Get(context.Background(), outcome.RunID)
	if err != nil {
		t.Fatalf("history Get: %v", err)
	}
	if run.Status != history.StatusCompleted || run.Totals != runner.TotalsOf(outcome.Summary) || run.Seed != 1 {
		t.Fatalf("unexpected ledger row: %+v", run)
	}
}

func TestRunIsReproducibleWithCacheAndWorkers(t *testing.T) {
	corpus := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		corpus[name] = strings.Repeat("the quick fox jumps. over the lazy "+name+" dog. ", 30)
	}

	outputs := make([]map[string]string, 0, 2)
	for _, opts := range [][]testsupport.ConfigOption{
		{testsupport.WithPolicy(5, 1), testsupport.WithSeed(99)},
		{testsupport.WithPolicy(5, 1), testsupport.WithSeed(99), testsupport.WithWorkers(4), testsupport.WithCache(), testsupport.WithoutHistory()},
	} {
		cfg := testsupport.NewConfig(t, opts...)
		testsupport.WriteCorpus(t, cfg.Paths.InputDir, corpus)
		if _, err := runner.Run(context.Background(), cfg, quiet()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		got := map[string]string{}
		for name := range corpus {
			got[name] = testsupport.ReadArtifact(t, cfg.Paths.OutputDir, name)
		}
		outputs = append(outputs, got)
	}
	for name := range corpus {
		if outputs[0][name] != outputs[1][name] {
			t.Fatalf("%s differs between sequential and cached parallel runs", name)
		}
	}
}

func TestRunFailsPreflightBeforeTouchingOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.InputDir = filepath.Join(t.TempDir(), "missing")
	testsupport.MkdirAll(t, cfg.Paths.OutputDir)
	marker := filepath.Join(cfg.Paths.OutputDir, "keep.txt")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := runner.Run(context.Background(), cfg, quiet())
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, statErr := os.Stat(marker); statErr != nil {
		t.Fatalf("output must survive a failed preflight: %v", statErr)
	}

	store := testsupport.MustOpenHistory(t, cfg)
	run, getErr := store.Get(context.Background(), outcome.RunID)
	if getErr != nil {
		t.Fatalf("history Get: %v", getErr)
	}
	if run.Status != history.StatusFailed || run.ErrorKind != "configuration" {
		t.Fatalf("unexpected ledger row: %+v", run)
	}
}

func TestRunRefusesLockedOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	holder := sink.NewDirectory(cfg.Paths.OutputDir, sink.Options{OwnerUID: -1, OwnerGID: -1})
	if err := holder.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer holder.Unlock()

	_, err := runner.Run(context.Background(), cfg, quiet())
	if !errors.Is(err, faults.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if _, err := runner.Run(context.Background(), nil, quiet()); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCountVocabulary(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPolicy(1, 2))
	testsupport.WriteCorpus(t, cfg.Paths.InputDir, map[string]string{
		"x": "the the the the. cat",
		"y": "the dog. dog",
	})
	vocab, err := runner.CountVocabulary(context.Background(), cfg, 2, nil)
	if err != nil {
		t.Fatalf("CountVocabulary: %v", err)
	}
	if vocab.Documents != 2 || vocab.Tokens != 8 || vocab.Distinct != 3 || vocab.Rare != 1 {
		t.Fatalf("unexpected vocabulary: %+v", vocab)
	}
	if len(vocab.Top) != 2 || vocab.Top[0].Word != "the" || vocab.Top[0].Count != 5 || vocab.Top[1].Word != "dog" {
		t.Fatalf("unexpected top words: %+v", vocab.Top)
	}
	// sqrt(1/5)
	if p := vocab.Top[0].KeepProbability; p < 0.447 || p > 0.448 {
		t.Fatalf("keep probability = %v", p)
	}
	if _, err := os.Stat(cfg.Paths.OutputDir); !os.IsNotExist(err) {
		t.Fatal("vocabulary pass must not create output")
	}
}
