package preflight

import (
	"strings"

	"weeder/internal/config"
	"weeder/internal/faults"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every check for cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckInputDir("Input directory", cfg.Paths.InputDir),
		CheckOutputParent("Output location", cfg.Paths.OutputDir),
		CheckWritableAncestor("State directory", cfg.Paths.StateDir),
		CheckEncoding("Source encoding", cfg.Source.Encoding),
	}
}

// Err returns a configuration error naming every failed check, or nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name+": "+r.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return faults.Wrap(faults.ErrConfiguration, "preflight", "check", strings.Join(failed, "; "), nil)
}
