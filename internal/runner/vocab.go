package runner

import (
	"context"
	"log/slog"

	"weeder/internal/config"
	"weeder/internal/frequency"
	"weeder/internal/logging"
	"weeder/internal/preflight"
	"weeder/internal/subsample"
)

// VocabEntry is one word of the vocabulary report with the chance a single
// occurrence survives weeding under the configured policy.
type VocabEntry struct {
	Word            string  `json:"word"`
	Count           int64   `json:"count"`
	KeepProbability float64 `json:"keep_probability"`
}

// Vocabulary is the result of a counting-only pass.
type Vocabulary struct {
	Documents int          `json:"documents"`
	Tokens    int64        `json:"tokens"`
	Distinct  int          `json:"distinct"`
	Rare      int          `json:"rare"`
	Top       []VocabEntry `json:"top"`
}

// CountVocabulary runs the frequency pass alone and reports the top most
// frequent words. Nothing is written to the output directory.
func CountVocabulary(ctx context.Context, cfg *config.Config, top int, logger *slog.Logger) (*Vocabulary, error) {
	if err := preflight.Err([]preflight.Result{
		preflight.CheckInputDir("Input directory", cfg.Paths.InputDir),
		preflight.CheckEncoding("Source encoding", cfg.Source.Encoding),
	}); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	src, err := OpenSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	result, err := frequency.Build(ctx, src, frequency.Options{Workers: cfg.Weeding.Workers, Logger: logger})
	if err != nil {
		return nil, err
	}

	policy := subsample.Policy{Sample: cfg.Weeding.Sample, MinCount: cfg.Weeding.MinCount}
	vocab := &Vocabulary{
		Documents: result.Documents,
		Tokens:    result.Table.Total(),
		Distinct:  result.Table.Len(),
	}
	for _, count := range result.Table.All() {
		if count < policy.MinCount {
			vocab.Rare++
		}
	}
	for _, entry := range result.Table.Top(top) {
		probability := policy.KeepProbability(entry.Count)
		if entry.Count < policy.MinCount {
			probability = 0
		}
		vocab.Top = append(vocab.Top, VocabEntry{Word: entry.Word, Count: entry.Count, KeepProbability: probability})
	}
	return vocab, nil
}
