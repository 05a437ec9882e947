package weeding

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"weeder/internal/faults"
	"weeder/internal/frequency"
	"weeder/internal/logging"
	"weeder/internal/progress"
	"weeder/internal/runinfo"
	"weeder/internal/sink"
	"weeder/internal/source"
	"weeder/internal/subsample"
)

// PassName labels the filtering pass in logs and progress output.
const PassName = "weeding"

// Options configures a Weeder.
type Options struct {
	Policy subsample.Policy
	// Workers bounds concurrent documents in both passes. Values below 2 run
	// sequentially.
	Workers int
	// Seed selects the random streams. 0 picks a fresh seed, reported in the
	// Summary.
	Seed     uint64
	Logger   *slog.Logger
	Progress progress.Reporter
}

// Summary describes a completed run.
type Summary struct {
	Documents         int           `json:"documents"`
	Tokens            int64         `json:"tokens"`
	Vocabulary        int           `json:"vocabulary"`
	Counts            Counts        `json:"counts"`
	Seed              uint64        `json:"seed"`
	Workers           int           `json:"workers"`
	FrequencyDuration time.Duration `json:"frequency_duration"`
	WeedingDuration   time.Duration `json:"weeding_duration"`
	Duration          time.Duration `json:"duration"`
}

// Weeder orchestrates the frequency and weeding passes.
type Weeder struct {
	opts     Options
	logger   *slog.Logger
	progress progress.Reporter
}

// New constructs a Weeder.
func New(opts Options) *Weeder {
	reporter := opts.Progress
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &Weeder{
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "weeder"),
		progress: reporter,
	}
}

// Run prepares out, counts src, then writes one weeded artifact per document.
// The first failure stops the run; artifacts already written stay in place.
func (w *Weeder) Run(ctx context.Context, src source.Source, out sink.Sink) (Summary, error) {
	started := time.Now()
	seed, fresh := subsample.ResolveSeed(w.opts.Seed)
	workers := max(w.opts.Workers, 1)
	logger := logging.WithContext(ctx, w.logger)
	if fresh {
		logger.Info("random seed chosen", logging.Uint64("seed", seed))
	}

	summary := Summary{Seed: seed, Workers: workers}

	if err := out.Prepare(ctx); err != nil {
		return summary, err
	}

	counted, err := frequency.Build(ctx, src, frequency.Options{
		Workers:  workers,
		Logger:   w.opts.Logger,
		Progress: w.progress,
	})
	if err != nil {
		return summary, err
	}
	summary.Documents = counted.Documents
	summary.Tokens = counted.Table.Total()
	summary.Vocabulary = counted.Table.Len()
	summary.FrequencyDuration = counted.Duration

	weedStarted := time.Now()
	counts, err := w.weed(ctx, src, out, counted, seed, workers)
	summary.Counts = counts
	summary.WeedingDuration = time.Since(weedStarted)
	summary.Duration = time.Since(started)
	if err != nil {
		return summary, err
	}

	logger.Info("weeding complete",
		logging.Int("documents", summary.Documents),
		logging.Int64("tokens", summary.Tokens),
		logging.Int("vocabulary", summary.Vocabulary),
		logging.Int64("kept", counts.Kept),
		logging.Int64("dropped_rare", counts.DroppedRare),
		logging.Int64("dropped_sampled", counts.DroppedSampled),
		logging.Int64("dropped_unknown", counts.DroppedUnknown),
		logging.Uint64("seed", seed),
		logging.Duration("duration", summary.Duration),
		logging.String(logging.FieldEventType, "run_completed"),
	)
	return summary, nil
}

func (w *Weeder) weed(ctx context.Context, src source.Source, out sink.Sink, counted *frequency.Result, seed uint64, workers int) (Counts, error) {
	ctx = runinfo.WithPass(ctx, PassName)
	logger := logging.WithContext(ctx, w.logger)
	logger.Info("weeding pass started",
		logging.Int("documents", src.Count()),
		logging.Int("workers", workers),
		logging.Float64("sample", w.opts.Policy.Sample),
		logging.Int64("min_count", w.opts.Policy.MinCount),
		logging.String(logging.FieldEventType, "pass_started"),
	)
	w.progress.Start("weeding documents", src.Count())
	defer w.progress.Finish()

	var (
		mu    sync.Mutex
		total Counts
	)
	process := func(ctx context.Context, doc source.Document) error {
		rng := subsample.NewRandom(seed, uint64(doc.Index))
		text, counts := WeedText(doc.Text, counted.Table, w.opts.Policy, rng)
		if err := out.Write(ctx, doc.Name, text); err != nil {
			return err
		}
		mu.Lock()
		total.Add(counts)
		mu.Unlock()
		w.progress.Advance()
		logging.WithContext(runinfo.WithDocument(ctx, doc.Name), w.logger).Debug("document weeded",
			logging.Int64("kept", counts.Kept),
			logging.Int64("dropped", counts.Dropped()),
		)
		return nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	seen := 0
	walkErr := src.Walk(gctx, func(doc source.Document) error {
		if err := verifyDocument(doc, counted.Fingerprints); err != nil {
			return err
		}
		seen++
		if workers == 1 {
			return process(gctx, doc)
		}
		group.Go(func() error { return process(gctx, doc) })
		return nil
	})
	groupErr := group.Wait()

	// A worker failure cancels gctx, which surfaces from Walk as a context
	// error; report the worker's error instead.
	if groupErr != nil {
		return total, groupErr
	}
	if walkErr != nil {
		return total, walkErr
	}
	if seen != len(counted.Fingerprints) {
		return total, faults.Wrap(faults.ErrSourceChanged, "weeder", "replay",
			fmt.Sprintf("counted %d documents, weeded %d", len(counted.Fingerprints), seen), nil)
	}
	return total, nil
}

func verifyDocument(doc source.Document, fingerprints []uint64) error {
	if doc.Index < 0 || doc.Index >= len(fingerprints) {
		return faults.Wrap(faults.ErrSourceChanged, "weeder", "replay",
			fmt.Sprintf("document %q has index %d outside the counted corpus", doc.Name, doc.Index), nil)
	}
	if frequency.Fingerprint(doc.Text) != fingerprints[doc.Index] {
		return faults.Wrap(faults.ErrSourceChanged, "weeder", "replay",
			fmt.Sprintf("document %q changed since it was counted", doc.Name), nil)
	}
	return nil
}
