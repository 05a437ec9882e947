package frequency

import (
	"context"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"weeder/internal/logging"
	"weeder/internal/runinfo"
	"weeder/internal/source"
	"weeder/internal/tokenize"
)

// PassName labels the counting pass in logs and progress output.
const PassName = "frequency"

// Progress receives one Advance per counted document.
type Progress interface {
	Start(label string, total int)
	Advance()
	Finish()
}

// Options configures Build.
type Options struct {
	// Workers bounds how many documents are tokenized at once. Values below
	// 2 count sequentially.
	Workers  int
	Logger   *slog.Logger
	Progress Progress
}

// Result is the outcome of the counting pass.
type Result struct {
	Table *Table
	// Fingerprints holds the xxhash64 of every document's text by index, so a
	// later pass can confirm it sees the same corpus.
	Fingerprints []uint64
	Documents    int
	Duration     time.Duration
}

// Fingerprint hashes a document's text.
func Fingerprint(text string) uint64 {
	return xxhash.Sum64String(text)
}

// CountText tokenizes text into a fresh table.
func CountText(text string) *Table {
	table := NewTable()
	for word := range tokenize.CorpusWords(text) {
		table.Add(word)
	}
	return table
}

// Build walks src once and counts every word of every document. With more
// than one worker documents are counted concurrently into private tables that
// are merged in document order, so the result matches a sequential build
// exactly, including iteration order.
func Build(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	ctx = runinfo.WithPass(ctx, PassName)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "frequency"))
	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}

	started := time.Now()
	total := src.Count()
	logger.Info("frequency pass started",
		logging.Int("documents", total),
		logging.Int("workers", max(opts.Workers, 1)),
		logging.String(logging.FieldEventType, "pass_started"),
	)
	progress.Start("counting words", total)
	defer progress.Finish()

	var (
		table        *Table
		fingerprints []uint64
		err          error
	)
	if opts.Workers > 1 {
		table, fingerprints, err = buildParallel(ctx, src, opts.Workers, progress)
	} else {
		table, fingerprints, err = buildSequential(ctx, src, progress)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Table:        table,
		Fingerprints: fingerprints,
		Documents:    len(fingerprints),
		Duration:     time.Since(started),
	}
	logger.Info("frequency pass completed",
		logging.Int("documents", result.Documents),
		logging.Int("vocabulary", table.Len()),
		logging.Int64("tokens", table.Total()),
		logging.Duration("duration", result.Duration),
		logging.String(logging.FieldEventType, "pass_completed"),
	)
	return result, nil
}

func buildSequential(ctx context.Context, src source.Source, progress Progress) (*Table, []uint64, error) {
	table := NewTable()
	fingerprints := make([]uint64, 0, src.Count())
	err := src.Walk(ctx, func(doc source.Document) error {
		for word := range tokenize.CorpusWords(doc.Text) {
			table.Add(word)
		}
		fingerprints = append(fingerprints, Fingerprint(doc.Text))
		progress.Advance()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return table, fingerprints, nil
}

func buildParallel(ctx context.Context, src source.Source, workers int, progress Progress) (*Table, []uint64, error) {
	var (
		partial      []*Table
		fingerprints []uint64
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	// Walk stays on this goroutine; Go blocks once the limit is reached,
	// which keeps at most workers documents in memory.
	walkErr := src.Walk(gctx, func(doc source.Document) error {
		counted := NewTable()
		partial = append(partial, counted)
		fingerprints = append(fingerprints, Fingerprint(doc.Text))
		text := doc.Text
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for word := range tokenize.CorpusWords(text) {
				counted.Add(word)
			}
			progress.Advance()
			return nil
		})
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	if walkErr != nil {
		return nil, nil, walkErr
	}

	table := NewTable()
	for _, counted := range partial {
		table.Merge(counted)
	}
	return table, fingerprints, nil
}

type nopProgress struct{}

func (nopProgress) Start(string, int) {}
func (nopProgress) Advance()          {}
func (nopProgress) Finish()           {}
