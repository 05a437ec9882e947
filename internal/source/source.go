// Package source enumerates the documents of a corpus.
//
// A Source must replay the same documents in the same order every time it is
// walked, because weeding reads the corpus twice: once to count words and
// once to filter them.
package source

import "context"

// Document is one input document. Index is its zero-based position in the walk.
type Document struct {
	Index int
	Name  string
	Text  string
}

// Source is a re-iterable document collection with a known size.
type Source interface {
	// Count returns the number of documents Walk will visit.
	Count() int
	// Walk calls fn for every document in order and stops at the first error.
	Walk(ctx context.Context, fn func(Document) error) error
}
