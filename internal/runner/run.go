package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"weeder/internal/config"
	"weeder/internal/faults"
	"weeder/internal/history"
	"weeder/internal/logging"
	"weeder/internal/preflight"
	"weeder/internal/progress"
	"weeder/internal/runinfo"
	"weeder/internal/sink"
	"weeder/internal/source"
	"weeder/internal/subsample"
	"weeder/internal/weeding"
)

// Options configures process-level behaviour of a run.
type Options struct {
	LogLevel    string
	Development bool
	// ConsoleLog is where log lines go besides the run log file. Defaults to
	// "stderr"; "none" keeps logs in the file only.
	ConsoleLog string
	// ProgressWriter receives the progress bar when it is a terminal.
	// Defaults to os.Stderr.
	ProgressWriter io.Writer
}

// Outcome describes a finished run.
type Outcome struct {
	RunID   string          `json:"run_id"`
	LogPath string          `json:"log_path"`
	Input   string          `json:"input_dir"`
	Output  string          `json:"output_dir"`
	Summary weeding.Summary `json:"summary"`
}

// Run executes one weeding run for cfg. SIGINT and SIGTERM cancel it.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) (*Outcome, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "runner", "run", "config is required", nil)
	}

	ctx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "runner", "ensure directories", cfg.Paths.StateDir, err)
	}

	runID := history.NewRunID()
	logPath := filepath.Join(cfg.LogDir(), fmt.Sprintf("weeder-%s.log", runID))
	logger, closer, err := newRunLogger(cfg, opts, logPath)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "runner", "init logger", "", err)
	}
	defer closer.Close()

	if err := ensureCurrentLogPointer(cfg.LogDir(), logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update weeder.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.LogDir(), Pattern: logging.RunLogPattern, Exclude: []string{logPath}},
	)

	ctx = runinfo.WithRunID(ctx, runID)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "runner"))
	outcome := &Outcome{RunID: runID, LogPath: logPath, Input: cfg.Paths.InputDir, Output: cfg.Paths.OutputDir}

	logger.Info("weeding run starting",
		logging.String("input_dir", cfg.Paths.InputDir),
		logging.String("output_dir", cfg.Paths.OutputDir),
		logging.Float64("sample", cfg.Weeding.Sample),
		logging.Int64("min_count", cfg.Weeding.MinCount),
		logging.Int("workers", cfg.Weeding.Workers),
		logging.Bool("cache_documents", cfg.Weeding.CacheDocuments),
		logging.String(logging.FieldEventType, "run_started"),
	)
	warnOnUnusualParameters(logger, cfg.Weeding)

	ledger := openLedger(logger, cfg)
	if ledger != nil {
		defer ledger.Close()
		if _, err := ledger.Begin(ctx, history.Params{
			ID:        runID,
			InputDir:  cfg.Paths.InputDir,
			OutputDir: cfg.Paths.OutputDir,
			Sample:    cfg.Weeding.Sample,
			MinCount:  cfg.Weeding.MinCount,
			Seed:      cfg.Weeding.Seed,
			Workers:   cfg.Weeding.Workers,
			LogPath:   logPath,
		}); err != nil {
			warnLedger(logger, "record run start", err)
			ledger = nil
		}
	}

	summary, runErr := execute(ctx, cfg, opts, logger)
	outcome.Summary = summary
	recordOutcome(logger, ledger, runID, summary, runErr)
	if runErr != nil {
		logging.ErrorWithContext(logger, "weeding run failed", "run_failed",
			logging.Error(runErr),
			logging.String("error_kind", faults.Kind(runErr)),
			logging.String(logging.FieldErrorHint, hintFor(runErr)),
		)
		return outcome, runErr
	}
	return outcome, nil
}

func execute(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (weeding.Summary, error) {
	if err := preflight.Err(preflight.RunAll(cfg)); err != nil {
		return weeding.Summary{}, err
	}

	src, err := OpenSource(cfg, logger)
	if err != nil {
		return weeding.Summary{}, err
	}

	out := sink.NewDirectory(cfg.Paths.OutputDir, sink.Options{
		OwnerUID: cfg.Output.OwnerUID,
		OwnerGID: cfg.Output.OwnerGID,
		Logger:   logger,
	})
	if err := out.Lock(); err != nil {
		return weeding.Summary{}, err
	}
	defer out.Unlock()

	progressWriter := opts.ProgressWriter
	if progressWriter == nil {
		progressWriter = os.Stderr
	}

	w := weeding.New(weeding.Options{
		Policy:   subsample.Policy{Sample: cfg.Weeding.Sample, MinCount: cfg.Weeding.MinCount},
		Workers:  cfg.Weeding.Workers,
		Seed:     cfg.Weeding.Seed,
		Logger:   logger,
		Progress: progress.New(progressWriter, logger),
	})
	return w.Run(ctx, src, out)
}

// OpenSource builds the configured document source.
func OpenSource(cfg *config.Config, logger *slog.Logger) (source.Source, error) {
	dir, err := source.OpenDirectory(cfg.Paths.InputDir, source.Options{
		Extensions: cfg.Source.Extensions,
		Encoding:   cfg.Source.Encoding,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Weeding.CacheDocuments {
		return source.NewCached(dir), nil
	}
	return dir, nil
}

func newRunLogger(cfg *config.Config, opts Options, logPath string) (*slog.Logger, io.Closer, error) {
	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	console := opts.ConsoleLog
	if console == "" {
		console = "stderr"
	}
	outputs := []string{logPath}
	if console != "none" {
		outputs = append([]string{console}, outputs...)
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		Development: opts.Development,
	})
}

func warnOnUnusualParameters(logger *slog.Logger, w config.Weeding) {
	if w.Sample <= 0 {
		logging.WarnWithContext(logger, "sample is not positive; every word will be dropped", "parameter_unusual",
			logging.Float64("sample", w.Sample),
			logging.String(logging.FieldErrorHint, "set weeding.sample to a positive value"),
			logging.String(logging.FieldImpact, "output documents will be empty"),
		)
	}
	if w.MinCount < 0 {
		logging.WarnWithContext(logger, "min_count is negative; no word is dropped for rarity", "parameter_unusual",
			logging.Int64("min_count", w.MinCount),
			logging.String(logging.FieldErrorHint, "set weeding.min_count to zero or more"),
			logging.String(logging.FieldImpact, "rare words are kept"),
		)
	}
}

func openLedger(logger *slog.Logger, cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		warnLedger(logger, "open run history", err)
		return nil
	}
	return store
}

func recordOutcome(logger *slog.Logger, ledger *history.Store, runID string, summary weeding.Summary, runErr error) {
	if ledger == nil {
		return
	}
	// The run context may already be cancelled; the ledger update must still land.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if runErr != nil {
		err = ledger.Fail(ctx, runID, runErr)
	} else {
		err = ledger.Complete(ctx, runID, summary.Seed, TotalsOf(summary))
	}
	if err != nil {
		warnLedger(logger, "record run outcome", err)
	}
}

// TotalsOf converts a weeding summary into ledger totals.
func TotalsOf(s weeding.Summary) history.Totals {
	return history.Totals{
		Documents:      int64(s.Documents),
		Tokens:         s.Tokens,
		Vocabulary:     int64(s.Vocabulary),
		Kept:           s.Counts.Kept,
		DroppedRare:    s.Counts.DroppedRare,
		DroppedSampled: s.Counts.DroppedSampled,
		DroppedUnknown: s.Counts.DroppedUnknown,
	}
}

func warnLedger(logger *slog.Logger, action string, err error) {
	logging.WarnWithContext(logger, "run history unavailable", "history_unavailable",
		logging.String("action", action),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions on the state directory or disable [history]"),
		logging.String(logging.FieldImpact, "run is not recorded in weeder history"),
	)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "run was interrupted; rerun to regenerate the output"
	case errors.Is(err, faults.ErrLocked):
		return "wait for the other run to finish or remove a stale lock file"
	case errors.Is(err, faults.ErrSourceChanged):
		return "do not modify the corpus while weeding runs"
	case errors.Is(err, faults.ErrConfiguration):
		return "run weeder check and fix the reported paths"
	case errors.Is(err, faults.ErrSink):
		return "check free space and permissions of the output directory"
	case errors.Is(err, faults.ErrSource):
		return "check that every corpus file is readable"
	default:
		return "check logs for details"
	}
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "weeder.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}
