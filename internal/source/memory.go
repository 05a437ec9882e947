package source

import (
	"context"
	"strconv"
)

// Memory is a slice-backed Source.
type Memory struct {
	docs []Document
}

// NewMemory returns a Source over docs. Indexes are reassigned from position.
func NewMemory(docs ...Document) *Memory {
	copied := make([]Document, len(docs))
	for i, doc := range docs {
		doc.Index = i
		copied[i] = doc
	}
	return &Memory{docs: copied}
}

// FromTexts builds a Memory source naming documents doc0, doc1, ...
func FromTexts(texts ...string) *Memory {
	docs := make([]Document, len(texts))
	for i, text := range texts {
		docs[i] = Document{Name: "doc" + strconv.Itoa(i), Text: text}
	}
	return NewMemory(docs...)
}

func (m *Memory) Count() int { return len(m.docs) }

func (m *Memory) Walk(ctx context.Context, fn func(Document) error) error {
	for _, doc := range m.docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}
