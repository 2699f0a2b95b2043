// Package velox provides off-heap unique-value accumulation for columnar
// aggregation, the core of distinct-set aggregate functions and
// approximate-distinct preaggregation.
//
// An Aggregator owns one memory arena and hands out accumulators that
// draw from it:
//
//	agg, err := velox.New(
//	    velox.WithMemoryLimit(256 << 20),
//	    velox.WithSpillCodec(spill.CodecLZ4),
//	)
//	if err != nil {
//	    panic(err)
//	}
//	defer agg.Close()
//
//	set, err := velox.NewSet[int64](agg)
//	if err != nil {
//	    panic(err)
//	}
//	for row := 0; row < col.Len(); row++ {
//	    if err := set.AddValue(col, row); err != nil {
//	        break // memory budget exhausted, spill and retry
//	    }
//	}
//
// Each unique value occupies a dense slot in first-occurrence order,
// with an optional slot reserved for the first null. Accumulators
// serialize into self-framed blocks (see package spill) so partial
// aggregation states can move between operators and survive memory
// pressure.
//
// Accumulators are single-writer. Independent accumulators may be used
// from different goroutines over the same Aggregator; the arena
// underneath allocates lock-free.
package velox
