// Package dirhash computes a single composite cryptographic digest
// representing the content state of one or more on-disk directory trees.
// It is a parallel collect-then-hash pipeline with pluggable readers and
// hashers, composable filtering, per-file reading-strategy dispatch,
// progress/cancellation signalling, and configurable error tolerance.
//
// # Basic usage
//
//	entry, err := dirhash.NewEntry("/path/to/dir", nil, nil, nil)
//	opts, err := dirhash.NewOptionsBuilder().WithEntry(entry).Build()
//	w := dirhash.NewWalker(opts)
//	if err := w.Collect(context.Background()); err != nil {
//		// handle err
//	}
//	digest, err := w.Hash(context.Background(), nil, nil)
//
// # Filtering
//
// An Entry's Folders/Files/Common Filters and its PatternFilters decide
// which files and directories are traversed; see Filter and PatternFilter.
//
// # Extension points
//
// Reader and Hasher are the only extension interfaces. Built-in readers
// (Buffer, Complete, MemoryMapped) and the default BLAKE3 hasher are thin
// adapters over the standard library, golang.org/x/sys/unix and
// github.com/zeebo/blake3; callers may supply their own implementations of
// either interface to Walker.Hash.
//
// # Note on internal API
//
// Types backing the Collector's concurrent output buffer (pathSet) and the
// run-scoped coordination state (runState) are internal implementation
// details. External consumers should use Entry, Filter, PatternFilter,
// ReadingStrategy, OptionsBuilder, Walker, Reader and Hasher.
package dirhash
