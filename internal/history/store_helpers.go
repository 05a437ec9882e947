package history

import (
	"database/sql"
	"strconv"
	"time"
)

const runColumns = "id, status, input_dir, output_dir, sample, min_count, seed, workers, documents, tokens, vocabulary, kept, dropped_rare, dropped_sampled, dropped_unknown, error_kind, error_message, log_path, started_at, finished_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		status       string
		seed         sql.NullString
		errorKind    sql.NullString
		errorMessage sql.NullString
		logPath      sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&run.InputDir,
		&run.OutputDir,
		&run.Sample,
		&run.MinCount,
		&seed,
		&run.Workers,
		&run.Totals.Documents,
		&run.Totals.Tokens,
		&run.Totals.Vocabulary,
		&run.Totals.Kept,
		&run.Totals.DroppedRare,
		&run.Totals.DroppedSampled,
		&run.Totals.DroppedUnknown,
		&errorKind,
		&errorMessage,
		&logPath,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	run.Status = Status(status)
	run.ErrorKind = errorKind.String
	run.ErrorMessage = errorMessage.String
	run.LogPath = logPath.String
	if seed.Valid {
		if v, err := strconv.ParseUint(seed.String, 10, 64); err == nil {
			run.Seed = v
		}
	}
	if ts, err := time.Parse(timestampLayout, startedRaw); err == nil {
		run.StartedAt = ts
	}
	if finishedRaw.Valid {
		if ts, err := time.Parse(timestampLayout, finishedRaw.String); err == nil {
			run.FinishedAt = &ts
		}
	}
	return &run, nil
}
