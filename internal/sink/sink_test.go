package sink_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"weeder/internal/faults"
	"weeder/internal/sink"
)

func TestDirectoryPrepareReplacesExistingOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "weeded")
	if err := os.MkdirAll(filepath.Join(out, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(out, "stale.txt"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write stale: %v", err)
	}

	s := sink.NewDirectory(out, sink.Options{OwnerUID: -1, OwnerGID: -1})
	if err := s.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty output dir, found %d entries", len(entries))
	}
}

func TestDirectoryWriteCreatesTextArtifacts(t *testing.T) {
	out := filepath.Join(t.TempDir(), "weeded")
	s := sink.NewDirectory(out, sink.Options{OwnerUID: -1, OwnerGID: -1})
	ctx := context.Background()
	if err := s.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := s.Write(ctx, "doc", "the cat sat."); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(ctx, "empty", ""); err != nil {
		t.Fatalf("Write empty: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "doc.txt"))
	if err != nil || string(data) != "the cat sat." {
		t.Fatalf("doc.txt = %q, %v", data, err)
	}
	info, err := os.Stat(filepath.Join(out, "empty.txt"))
	if err != nil || info.Size() != 0 {
		t.Fatalf("empty artifact missing or non-empty: %v", err)
	}
}

func TestDirectoryWriteRejectsPathNames(t *testing.T) {
	s := sink.NewDirectory(t.TempDir(), sink.Options{OwnerUID: -1, OwnerGID: -1})
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		if err := s.Write(context.Background(), name, "x"); !errors.Is(err, faults.ErrSink) {
			t.Fatalf("Write(%q) = %v, want sink error", name, err)
		}
	}
}

func TestDirectoryWriteFailsWithoutPrepare(t *testing.T) {
	s := sink.NewDirectory(filepath.Join(t.TempDir(), "never-created"), sink.Options{OwnerUID: -1, OwnerGID: -1})
	if err := s.Write(context.Background(), "doc", "x"); !errors.Is(err, faults.ErrSink) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestDirectoryLockIsExclusive(t *testing.T) {
	out := filepath.Join(t.TempDir(), "weeded")
	first := sink.NewDirectory(out, sink.Options{OwnerUID: -1, OwnerGID: -1})
	second := sink.NewDirectory(out, sink.Options{OwnerUID: -1, OwnerGID: -1})

	if err := first.Lock(); err != nil {
		t.Fatalf("first Lock: %v", err)
	}
	if err := second.Lock(); !errors.Is(err, faults.ErrLocked) {
		t.Fatalf("second Lock = %v, want ErrLocked", err)
	}
	if _, err := os.Stat(sink.LockPath(out)); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	// Prepare must not disturb the lock, which lives beside the directory.
	if err := first.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	first.Unlock()
	if err := second.Lock(); err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	second.Unlock()
	second.Unlock()
}

func TestMemorySink(t *testing.T) {
	m := sink.NewMemory()
	ctx := context.Background()
	_ = m.Write(ctx, "old", "x")
	if err := m.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	_ = m.Write(ctx, "b", "two")
	_ = m.Write(ctx, "a", "one")

	if !slices.Equal(m.Files(), []string{"a.txt", "b.txt"}) {
		t.Fatalf("unexpected files: %v", m.Files())
	}
	if text, ok := m.Get("a.txt"); !ok || text != "one" {
		t.Fatalf("Get(a.txt) = %q, %v", text, ok)
	}
	if m.Writes() != 2 || m.Prepared() != 1 {
		t.Fatalf("writes=%d prepared=%d", m.Writes(), m.Prepared())
	}
}
