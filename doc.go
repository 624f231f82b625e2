// Package permsort sorts files of fixed-width integer records in place and
// measures how two random-access strategies compare while doing it.
//
// A record file stores N records of width W = digits(N)+2: the decimal
// digits of a value in 1..N, space padding, and a trailing line feed. Slot i
// is home for value i+1. Given the permutation describing the current order,
// SortInPlace follows its cycles and swaps record bytes directly in the file,
// using O(1) memory beyond a working copy of the permutation.
//
// # Basic Usage
//
// Generating and sorting a file:
//
//	perm := permsort.Shuffle(100_000, seed)
//	if err := permsort.CreateRecordFile("records.txt", perm); err != nil {
//	    log.Fatal(err)
//	}
//	store, err := permsort.OpenSingleHandle("records.txt", permsort.RecordWidth(len(perm)), len(perm))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	stats, err := permsort.SortInPlace(store, perm)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d swaps, %d seeks\n", stats.Swaps, stats.Store.Seeks)
//
// # Strategies
//
//   - SingleHandleStore: one handle, a seek before every read and write.
//   - MultiHandleStore: a read and a write handle per record, each parked at
//     its record's offset when opened. Steady-state accesses need no seek
//     until a record is touched a second time.
//
// # Package Structure
//
//   - Engine: engine.go (SortInPlace, Stats, StorageFailure)
//   - Stores: store.go (Store), store_single.go, store_multi.go
//   - Configuration: options.go (StoreOption, SortOption)
//   - Permutations: permutation.go (ValidatePermutation, Cycles, Shuffle)
//   - Record files: recfile.go (CreateRecordFile, ReadPermutation, VerifySorted, Digest)
//   - Codec: internal/record
//   - Filesystem seam and fault injection: internal/fs
//   - Benchmark statistics: internal/stats
//   - Platform: fadvise_*.go, fallocate_*.go, madvise_*.go, rlimit_*.go
//   - CLI: cmd/permbench (generate, sort, verify, bench)
package permsort
