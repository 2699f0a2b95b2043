// Package resource provides budgets for accumulator memory and spill
// bandwidth.
//
// A Controller implements arena.MemoryAcquirer, so plugging it into an
// arena caps how much off-heap memory a set of accumulators may hold. The
// spill throttle bounds how fast serialized accumulator state may be
// handed to whatever transports it; the core itself performs no I/O.
package resource
