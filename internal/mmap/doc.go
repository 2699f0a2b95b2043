// Package mmap provides anonymous off-heap memory mappings.
//
// Anonymous mappings back the arena allocator: accumulator state lives
// outside the Go garbage collector's view, so large unique-value sets do
// not inflate GC scan times. The mapping is returned to the OS with
// Close(); nothing in the mapped region is ever scanned or moved by the
// runtime.
//
// Unix platforms use mmap(2); Windows uses VirtualAlloc/VirtualFree.
package mmap
