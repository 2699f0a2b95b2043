// Package hashmap implements an open-addressing hash table mapping keys
// to int32 slot indexes, with all table storage drawn from an arena.
//
// Keys must be plain data: fixed-size values without Go-heap pointers,
// since the table lives in off-heap memory the garbage collector never
// scans. Hash and equality are injected at construction, so the same
// table serves scalar keys, string views, and nested-value handles.
package hashmap
