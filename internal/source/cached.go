package source

import (
	"context"
	"sync"
)

// Cached loads the wrapped Source into memory on the first complete walk and
// replays it afterwards, trading memory for a single read of the corpus.
type Cached struct {
	inner Source

	mu     sync.Mutex
	loaded []Document
	ready  bool
}

// NewCached wraps inner.
func NewCached(inner Source) *Cached {
	return &Cached{inner: inner}
}

func (c *Cached) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return len(c.loaded)
	}
	return c.inner.Count()
}

// Walk replays cached documents when available. A walk that fails or is cut
// short leaves the cache empty so the next walk reads the inner source again.
func (c *Cached) Walk(ctx context.Context, fn func(Document) error) error {
	c.mu.Lock()
	if c.ready {
		docs := c.loaded
		c.mu.Unlock()
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(doc); err != nil {
				return err
			}
		}
		return nil
	}
	c.mu.Unlock()

	docs := make([]Document, 0, c.inner.Count())
	err := c.inner.Walk(ctx, func(doc Document) error {
		docs = append(docs, doc)
		return fn(doc)
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.loaded = docs
	c.ready = true
	c.mu.Unlock()
	return nil
}

// Release drops the cached documents.
func (c *Cached) Release() {
	c.mu.Lock()
	c.loaded = nil
	c.ready = false
	c.mu.Unlock()
}
