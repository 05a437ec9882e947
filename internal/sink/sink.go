// Package sink owns the output location of a weeding run.
package sink

import "context"

// ArtifactExtension is appended to every document name.
const ArtifactExtension = ".txt"

// Sink receives one artifact per document. Write may be called concurrently
// for different names.
type Sink interface {
	// Prepare discards any previous output and leaves an empty location.
	Prepare(ctx context.Context) error
	// Write stores the weeded text of the named document.
	Write(ctx context.Context, name, text string) error
}
