package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// MkdirAll creates dir or fails the test.
func MkdirAll(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// WriteCorpus writes one <name>.txt file per entry of docs into dir.
func WriteCorpus(t testing.TB, dir string, docs map[string]string) {
	t.Helper()
	MkdirAll(t, dir)
	for name, text := range docs {
		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// ReadArtifact returns the weeded text written for name under dir.
func ReadArtifact(t testing.TB, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name+".txt"))
	if err != nil {
		t.Fatalf("read artifact %s: %v", name, err)
	}
	return string(data)
}
