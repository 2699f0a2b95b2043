package velox

import (
	"github.com/TJX2014/velox/arena"
	"github.com/TJX2014/velox/spill"
)

type options struct {
	chunkSize   int
	memoryLimit int64
	spillRate   int64
	codec       spill.Codec
	logger      *Logger
	metrics     MetricsCollector
}

func defaultOptions() options {
	return options{
		chunkSize: arena.DefaultChunkSize,
		codec:     spill.CodecLZ4,
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
	}
}

// Option configures Aggregator construction.
type Option func(*options)

// WithChunkSize sets the arena chunk size in bytes. Larger chunks mean
// fewer mappings for big accumulators, smaller chunks waste less on
// small ones.
func WithChunkSize(size int) Option {
	return func(o *options) {
		o.chunkSize = size
	}
}

// WithMemoryLimit caps the bytes the aggregator may map from the OS.
// Allocations beyond the limit fail so the caller can spill. Zero means
// track usage without limiting.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithSpillRateLimit caps spill serialization throughput in bytes per
// second. Zero means unlimited.
func WithSpillRateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.spillRate = bytesPerSec
	}
}

// WithSpillCodec selects the compression codec for spilled blocks.
func WithSpillCodec(c spill.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. If nil is passed,
// metrics are discarded.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}
