package velox

// Close frees every registered accumulator and unmaps the arena. The
// Aggregator cannot be used afterwards. Close is idempotent.
func (agg *Aggregator) Close() error {
	agg.mu.Lock()
	defer agg.mu.Unlock()

	if agg.closed {
		return nil
	}
	agg.closed = true

	for _, acc := range agg.accums {
		acc.Free()
	}
	agg.accums = nil
	agg.arena.Free()

	return nil
}
