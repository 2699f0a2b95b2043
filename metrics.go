package velox

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics. Implement it to feed a
// monitoring system; the aggregator calls it synchronously, so
// implementations should be cheap.
type MetricsCollector interface {
	// RecordSpill is called after each Spill with the number of blocks
	// and framed bytes written. err is nil on success.
	RecordSpill(blocks int, bytes int64, duration time.Duration, err error)

	// RecordRestore is called after each Restore with the number of
	// accumulator states applied. err is nil on success.
	RecordRestore(blocks int, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSpill(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordRestore(int, time.Duration, error)      {}

// BasicMetricsCollector counts operations in memory. Useful for tests
// and debugging without an external monitoring system.
type BasicMetricsCollector struct {
	SpillCount        atomic.Int64
	SpillErrors       atomic.Int64
	SpillBytes        atomic.Int64
	SpillTotalNanos   atomic.Int64
	RestoreCount      atomic.Int64
	RestoreErrors     atomic.Int64
	RestoreTotalNanos atomic.Int64
}

// RecordSpill implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSpill(_ int, bytes int64, duration time.Duration, err error) {
	b.SpillCount.Add(1)
	b.SpillBytes.Add(bytes)
	b.SpillTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SpillErrors.Add(1)
	}
}

// RecordRestore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestore(_ int, duration time.Duration, err error) {
	b.RestoreCount.Add(1)
	b.RestoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RestoreErrors.Add(1)
	}
}
