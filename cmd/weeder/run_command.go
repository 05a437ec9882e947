package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"weeder/internal/config"
	"weeder/internal/runner"
)

// weedingFlags are the command-line overrides shared by run and vocab.
type weedingFlags struct {
	input    string
	output   string
	sample   float64
	minCount int64
	workers  int
	seed     uint64
	cache    bool
}

func (f *weedingFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "Directory of extracted documents")
	flags.StringVarP(&f.output, "output", "o", "", "Directory that receives the weeded documents")
	flags.Float64Var(&f.sample, "sample", 0, "Subsampling scale")
	flags.Int64Var(&f.minCount, "min-count", 0, "Minimum corpus count for a word to survive")
	flags.IntVarP(&f.workers, "workers", "w", 0, "Concurrent documents (0 uses every CPU)")
	flags.Uint64Var(&f.seed, "seed", 0, "Random seed (0 picks one)")
	flags.BoolVar(&f.cache, "cache", false, "Keep documents in memory between passes")
}

// apply copies every flag the user set onto cfg and re-validates it.
func (f *weedingFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Paths.InputDir = f.input
	}
	if flags.Changed("output") {
		cfg.Paths.OutputDir = f.output
	}
	if flags.Changed("sample") {
		cfg.Weeding.Sample = f.sample
	}
	if flags.Changed("min-count") {
		cfg.Weeding.MinCount = f.minCount
	}
	if flags.Changed("workers") {
		cfg.Weeding.Workers = f.workers
	}
	if flags.Changed("seed") {
		cfg.Weeding.Seed = f.seed
	}
	if flags.Changed("cache") {
		cfg.Weeding.CacheDocuments = f.cache
	}
	if err := cfg.Normalize(); err != nil {
		return fmt.Errorf("normalize config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var overrides weedingFlags
	var jsonOutput bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Count word frequencies and write a weeded copy of every document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			if err := overrides.apply(cmd, cfg); err != nil {
				return err
			}

			opts := runner.Options{
				LogLevel:       ctx.logLevel(),
				ProgressWriter: cmd.ErrOrStderr(),
			}
			if quiet {
				opts.ConsoleLog = "none"
			}
			outcome, err := runner.Run(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, outcome)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderOutcome(outcome))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	overrides.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Write logs to the run log file only")
	return cmd
}

func renderOutcome(o *runner.Outcome) string {
	s := o.Summary
	pairs := [][2]string{
		{"Run", o.RunID},
		{"Input", o.Input},
		{"Output", o.Output},
		{"Documents", humanize.Comma(int64(s.Documents))},
		{"Tokens", humanize.Comma(s.Tokens)},
		{"Vocabulary", humanize.Comma(int64(s.Vocabulary))},
		{"Kept", formatShare(s.Counts.Kept, s.Counts.Total())},
		{"Dropped (sampled)", formatShare(s.Counts.DroppedSampled, s.Counts.Total())},
		{"Dropped (rare)", formatShare(s.Counts.DroppedRare, s.Counts.Total())},
		{"Dropped (unknown)", humanize.Comma(s.Counts.DroppedUnknown)},
		{"Seed", strconv.FormatUint(s.Seed, 10)},
		{"Workers", strconv.Itoa(s.Workers)},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
		{"Log", o.LogPath},
	}
	return renderKeyValues(pairs)
}

func formatShare(n, total int64) string {
	if total <= 0 {
		return humanize.Comma(n)
	}
	return fmt.Sprintf("%s (%s%%)", humanize.Comma(n), humanize.FormatFloat("#.#", 100*float64(n)/float64(total)))
}
