// Package preflight checks that the filesystem is ready for a weeding run.
//
// The checks run before every run, so a misconfigured path fails fast instead
// of after the output directory has already been cleared, and back the
// "weeder check" command.
package preflight
