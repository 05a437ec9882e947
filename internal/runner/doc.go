// Package runner wires configuration, logging, the run ledger, the document
// source, the output sink and the weeder into a single weeding run.
package runner
