package velox

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/TJX2014/velox/arena"
	"github.com/TJX2014/velox/distinct"
	"github.com/TJX2014/velox/resource"
	"github.com/TJX2014/velox/spill"
	"github.com/TJX2014/velox/vector"
)

// Aggregator owns the arena, resource budget and accumulators of one
// aggregation operator. Accumulators created through it share the arena
// and are released together by Close.
type Aggregator struct {
	mu      sync.Mutex
	arena   *arena.Arena
	ctrl    *resource.Controller
	logger  *Logger
	metrics MetricsCollector
	codec   spill.Codec
	accums  []distinct.Accumulator
	closed  bool
}

// New creates an Aggregator.
func New(opts ...Option) (*Aggregator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctrl := resource.NewController(resource.Config{
		MemoryLimitBytes:      o.memoryLimit,
		SpillLimitBytesPerSec: o.spillRate,
	})

	a, err := arena.New(o.chunkSize, arena.WithMemoryAcquirer(ctrl))
	if err != nil {
		return nil, err
	}

	return &Aggregator{
		arena:   a,
		ctrl:    ctrl,
		logger:  o.logger,
		metrics: o.metrics,
		codec:   o.codec,
	}, nil
}

// Arena exposes the shared arena for callers that manage accumulator
// construction themselves. Registered accumulators are preferred; the
// caller owns the lifecycle of anything built directly on the arena.
func (agg *Aggregator) Arena() *arena.Arena {
	return agg.arena
}

// MemoryUsage returns the bytes held by live accumulator state.
func (agg *Aggregator) MemoryUsage() uint64 {
	return agg.arena.BytesUsed()
}

// NewSet creates and registers a scalar accumulator.
func NewSet[T vector.Native](agg *Aggregator) (*distinct.Set[T], error) {
	s := distinct.NewSet[T](agg.arena)
	if err := agg.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStringSet creates and registers a string accumulator.
func (agg *Aggregator) NewStringSet() (*distinct.StringSet, error) {
	s := distinct.NewStringSet(agg.arena)
	if err := agg.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewComplexSet creates and registers a nested-value accumulator.
func (agg *Aggregator) NewComplexSet() (*distinct.ComplexSet, error) {
	s := distinct.NewComplexSet(agg.arena)
	if err := agg.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (agg *Aggregator) register(acc distinct.Accumulator) error {
	agg.mu.Lock()
	defer agg.mu.Unlock()

	if agg.closed {
		return ErrClosed
	}
	agg.accums = append(agg.accums, acc)
	return nil
}

// Spill serializes every registered accumulator into framed blocks on w,
// in registration order. The context bounds the wait for spill
// bandwidth. Returns the framed bytes written.
func (agg *Aggregator) Spill(ctx context.Context, w io.Writer) (int64, error) {
	agg.mu.Lock()
	defer agg.mu.Unlock()

	if agg.closed {
		return 0, ErrClosed
	}

	start := time.Now()
	out := vector.NewBytesVector(len(agg.accums))
	bw := spill.NewWriter(w, agg.codec, agg.ctrl)

	for i, acc := range agg.accums {
		acc.Serialize(out, i)
		if err := bw.WriteBlock(ctx, out.At(i)); err != nil {
			agg.metrics.RecordSpill(bw.Blocks(), bw.BytesWritten(), time.Since(start), err)
			return bw.BytesWritten(), err
		}
	}

	agg.metrics.RecordSpill(bw.Blocks(), bw.BytesWritten(), time.Since(start), nil)
	agg.logger.Debug("spilled accumulators",
		"blocks", bw.Blocks(),
		"bytes", bw.BytesWritten(),
		"codec", agg.codec.String(),
	)
	return bw.BytesWritten(), nil
}

// Restore deserializes spilled blocks into the registered accumulators,
// in registration order. The accumulators must be freshly created and
// match the spilled set in count and kind.
func (agg *Aggregator) Restore(data []byte) error {
	agg.mu.Lock()
	defer agg.mu.Unlock()

	if agg.closed {
		return ErrClosed
	}

	start := time.Now()
	r := spill.NewReader(data)

	restored := 0
	for _, acc := range agg.accums {
		payload, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			agg.metrics.RecordRestore(restored, time.Since(start), err)
			return err
		}
		if err := acc.Deserialize(payload); err != nil {
			agg.metrics.RecordRestore(restored, time.Since(start), err)
			return err
		}
		restored++
	}

	// Anything left after the registered accumulators is either surplus
	// states or corruption; both fail the restore.
	extra := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			agg.metrics.RecordRestore(restored, time.Since(start), err)
			return err
		}
		extra++
	}
	if restored != len(agg.accums) || extra > 0 {
		err := &ErrAccumulatorMismatch{Expected: len(agg.accums), Actual: restored + extra}
		agg.metrics.RecordRestore(restored, time.Since(start), err)
		return err
	}

	agg.metrics.RecordRestore(restored, time.Since(start), nil)
	agg.logger.Debug("restored accumulators", "blocks", restored)
	return nil
}
