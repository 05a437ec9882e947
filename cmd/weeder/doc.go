// Package main hosts the weeder CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, applies flag
// overrides, and hands the actual work to internal/runner: a full weeding run,
// a counting-only vocabulary report, run history maintenance, and preflight
// checks. Keep this package thin; behaviour belongs in the internal packages.
package main
