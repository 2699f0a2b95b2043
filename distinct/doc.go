// Package distinct implements unique-value accumulators for aggregation
// operators with distinct-set semantics (SET_AGG, array/map/row
// de-duplication).
//
// Three variants share one arena-backed unique-value map:
//
//   - Set[T] for fixed-width scalar columns
//   - StringSet for string columns, with an out-of-line arena for
//     payloads too long to store inline in a StringView
//   - ComplexSet for nested columns (arrays, maps, rows), keyed by
//     handles into an append-only list of canonical value encodings
//
// Each unique value (and the null, if observed) owns one dense slot
// index assigned in first-occurrence order; duplicates are no-ops. The
// slot order determines extraction layout and the serialized spill
// format: positional fixed-width records for scalars, tagged
// variable-length tuples for strings and nested values.
//
// An accumulator borrows the arena passed at construction and must be
// released with Free exactly once before the arena's owner resets or
// frees it. Instances are single-writer: one aggregation group, one
// driving goroutine.
package distinct
