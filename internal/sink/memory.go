package sink

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory keeps artifacts in a map. It is used by tests and by dry runs.
type Memory struct {
	mu        sync.Mutex
	artifacts map[string]string
	writes    int
	prepared  int
}

func NewMemory() *Memory {
	return &Memory{artifacts: make(map[string]string)}
}

func (m *Memory) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.artifacts)
	m.writes = 0
	m.prepared++
	return nil
}

func (m *Memory) Write(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[name+ArtifactExtension] = text
	m.writes++
	return nil
}

// Get returns the artifact stored under file, e.g. "doc.txt".
func (m *Memory) Get(file string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.artifacts[file]
	return text, ok
}

// Files returns the stored artifact names, sorted.
func (m *Memory) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.artifacts))
}

// Writes returns the number of writes since the last Prepare.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Prepared returns how many times Prepare ran.
func (m *Memory) Prepared() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepared
}
