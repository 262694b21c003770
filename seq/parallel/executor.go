// Package parallel provides the worker pool used to evaluate bounded
// sequences concurrently. Work is split into contiguous chunks, one task per
// chunk runs on a pool limited to a fixed number of workers, and the first
// failing task cancels the rest.
//
// The package has no knowledge of sequences; seq/core drives it with
// per-chunk tasks.
package parallel

import (
	"runtime"

	"github.com/samber/lo"
)

const (
	// DefaultMinChunkSize is the smallest chunk a split produces.
	DefaultMinChunkSize = 1

	// DefaultSplitFactor is the number of chunks planned per worker.
	// Over-splitting lets fast workers pick up the slack of slow ones.
	DefaultSplitFactor = 4
)

// Config holds the executor settings loaded by the config package.
// Zero values mean "use the default".
type Config struct {
	Workers      int `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	MinChunkSize int `yaml:"min_chunk_size" mapstructure:"min_chunk_size" validate:"gte=0"`
	SplitFactor  int `yaml:"split_factor" mapstructure:"split_factor" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.MinChunkSize <= 0 {
		c.MinChunkSize = DefaultMinChunkSize
	}
	if c.SplitFactor <= 0 {
		c.SplitFactor = DefaultSplitFactor
	}
}

// Executor is a fixed-size worker pool configuration. It holds no goroutines
// between runs, so a single Executor can be shared by any number of
// concurrent evaluations.
type Executor struct {
	workers      int
	minChunkSize int
	splitFactor  int
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers sets the pool size. Values below 1 are clamped to 1.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithMinChunkSize sets the smallest chunk a split may produce.
// Values below 1 are clamped to 1.
func WithMinChunkSize(n int) Option {
	return func(e *Executor) {
		if n < 1 {
			n = 1
		}
		e.minChunkSize = n
	}
}

// WithSplitFactor sets how many chunks are planned per worker.
// Values below 1 are clamped to 1.
func WithSplitFactor(k int) Option {
	return func(e *Executor) {
		if k < 1 {
			k = 1
		}
		e.splitFactor = k
	}
}

// NewExecutor creates an Executor sized to the available hardware
// parallelism unless overridden by options.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		workers:      runtime.GOMAXPROCS(0),
		minChunkSize: DefaultMinChunkSize,
		splitFactor:  DefaultSplitFactor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromConfig creates an Executor from loaded configuration.
func FromConfig(cfg Config) *Executor {
	cfg.ApplyDefaults()
	return NewExecutor(
		WithWorkers(cfg.Workers),
		WithMinChunkSize(cfg.MinChunkSize),
		WithSplitFactor(cfg.SplitFactor),
	)
}

// Workers returns the pool size. A zero Executor has one worker.
func (e *Executor) Workers() int { return max(e.workers, 1) }

// ChunkSize returns the chunk length used to split n elements:
// ceil(n / (workers * splitFactor)), but never below the minimum chunk size.
// Unset fields of a zero Executor count as 1.
func (e *Executor) ChunkSize(n int) int {
	planned := e.Workers() * max(e.splitFactor, 1)
	size := (n + planned - 1) / planned
	return max(size, e.minChunkSize, 1)
}

// Split partitions items into contiguous chunks sized by ChunkSize.
// An empty input yields no chunks.
func Split[T any](e *Executor, items []T) [][]T {
	if len(items) == 0 {
		return nil
	}
	return lo.Chunk(items, e.ChunkSize(len(items)))
}
