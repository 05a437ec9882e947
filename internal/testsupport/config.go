package testsupport

import (
	"path/filepath"
	"testing"

	"weeder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The input directory is created empty; the output directory is not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "extracted")
	cfgVal.Paths.OutputDir = filepath.Join(base, "weeded")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Weeding.Seed = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	MkdirAll(t, builder.cfg.Paths.InputDir)
	return builder.cfg
}

// WithPolicy sets the subsampling hyperparameters.
func WithPolicy(sample float64, minCount int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Weeding.Sample = sample
		b.cfg.Weeding.MinCount = minCount
	}
}

// WithWorkers sets the worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Weeding.Workers = n
	}
}

// WithSeed sets the run seed. 0 asks for a random seed.
func WithSeed(seed uint64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Weeding.Seed = seed
	}
}

// WithCache enables in-memory document caching.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Weeding.CacheDocuments = true
	}
}

// WithoutHistory disables the run ledger.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}
