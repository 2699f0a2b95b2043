// Package bytestream implements sequential fixed-width reads and writes
// over a byte buffer.
//
// The Writer targets a buffer whose exact length was computed before any
// byte is written; running past the end means the size accounting was
// wrong, which is a fatal invariant violation rather than a recoverable
// error. The Reader treats a short buffer the same way: serialized
// accumulator state is produced by this module, so truncation means
// corruption.
package bytestream
