// Package arena implements a chunked off-heap bump allocator.
//
// Accumulator state (hash table storage, out-of-line string payloads,
// nested-value bytes) is drawn from an Arena rather than the Go heap. The
// arena obtains memory in large anonymous mappings, hands out aligned
// slices with a lock-free CAS fast path, and returns everything to the OS
// wholesale on Free. A single allocation never exceeds the chunk size;
// size the chunks for the largest hash table a workload needs.
//
// # Ownership
//
// Accumulators borrow an arena; they never own one. Individual
// allocations are not returned piecemeal: Release only adjusts usage
// accounting, and the memory itself is reclaimed by Free or Reset. Every
// component holding arena-backed storage must release its accounting
// exactly once before the owner frees or resets the arena.
//
// # Concurrency
//
// Alloc is safe for concurrent use. Free and Reset are not safe to run
// concurrently with allocations.
package arena
