// Package logging assembles structured slog loggers and formatting helpers used
// across weeder.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so pass code can automatically tag log lines
// with the run identifier, pass name, and document being processed. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail, a sampler that keeps per-document progress from flooding the output,
// and retention cleanup for per-run log files.
package logging
