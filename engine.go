package permsort

import (
	"errors"
	"fmt"
	"slices"
	"time"

	permerrors "github.com/tamirms/permsort/errors"
	"github.com/tamirms/permsort/internal/record"
)

// Stats describes a completed or aborted SortInPlace run.
type Stats struct {
	Records     int
	FixedPoints int // slots already home before the run
	Swaps       int // swaps completed
	Elapsed     time.Duration
	Store       StoreStats
}

// StorageFailure reports a store error during a swap of slots I and J.
// Index is the slot whose read or write failed.
//
// The file is left in whatever intermediate order the completed swaps
// produced; nothing is rolled back. StorageFailure matches
// ErrStorageFailure under errors.Is and unwraps to the store error.
type StorageFailure struct {
	I, J  int
	Index int
	Op    string // "read" or "write"
	Err   error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("permsort: storage failure swapping slots %d and %d: %s slot %d: %v",
		e.I, e.J, e.Op, e.Index, e.Err)
}

func (e *StorageFailure) Unwrap() []error {
	return []error{permerrors.ErrStorageFailure, e.Err}
}

// SortInPlace rearranges the records of store into sorted order by following
// the cycles of perm, swapping record bytes directly in the backing file.
//
// perm[i] must be the value currently stored in slot i, and must be a
// permutation of 1..store.RecordCount(); otherwise ErrInvalidPermutation is
// returned before any I/O. perm is not modified.
//
// Each swap fixes at least one slot, so a run performs ExpectedSwaps(perm)
// swaps and at most N-1. Apart from a working copy of perm, the only memory
// used is two record-sized buffers.
//
// A store error aborts the run with a *StorageFailure. The returned Stats
// count the swaps completed before the failure.
func SortInPlace(store Store, perm []int, opts ...SortOption) (Stats, error) {
	cfg := defaultSortConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	n := store.RecordCount()
	if len(perm) != n {
		return Stats{}, fmt.Errorf("%w: permutation has %d entries, store holds %d records",
			permerrors.ErrInvalidPermutation, len(perm), n)
	}
	if err := ValidatePermutation(perm); err != nil {
		return Stats{}, err
	}

	// cur[i] is the value physically in slot i; perm stays the caller's.
	cur := slices.Clone(perm)
	width := store.RecordWidth()
	a := make([]byte, width)
	b := make([]byte, width)

	stats := Stats{Records: n, FixedPoints: FixedPoints(perm)}
	log := cfg.logger.With("records", n, "width", width)
	log.Debug("permutation run started", "fixed_points", stats.FixedPoints)

	start := time.Now()
	finish := func(err error) (Stats, error) {
		stats.Elapsed = time.Since(start)
		stats.Store = store.Stats()
		if err != nil {
			log.Debug("permutation run aborted", "swaps", stats.Swaps, "error", err)
			return stats, err
		}
		log.Debug("permutation run finished", "swaps", stats.Swaps, "elapsed", stats.Elapsed)
		return stats, nil
	}

	i := 0
	for i < n {
		target := cur[i] - 1
		if target == i {
			i++
			continue
		}

		if err := readSlot(store, cfg, i, target, i, cur[i], a); err != nil {
			return finish(err)
		}
		if err := readSlot(store, cfg, i, target, target, cur[target], b); err != nil {
			return finish(err)
		}
		if err := store.WriteRecord(target, a); err != nil {
			return finish(&StorageFailure{I: i, J: target, Index: target, Op: "write", Err: err})
		}
		if err := store.WriteRecord(i, b); err != nil {
			return finish(&StorageFailure{I: i, J: target, Index: i, Op: "write", Err: err})
		}

		cur[i] = cur[target]
		cur[target] = target + 1
		stats.Swaps++
		if cfg.swapHook != nil {
			cfg.swapHook(i, target)
		}
		// i is not advanced: the value just moved into slot i may belong
		// elsewhere in the same cycle.
	}
	return finish(nil)
}

// readSlot reads slot idx into buf during the swap of i and j, optionally
// checking that it decodes to want.
func readSlot(store Store, cfg *sortConfig, i, j, idx, want int, buf []byte) error {
	if err := store.ReadRecord(idx, buf); err != nil {
		return &StorageFailure{I: i, J: j, Index: idx, Op: "read", Err: err}
	}
	if !cfg.recordCheck {
		return nil
	}
	got, err := record.Decode(buf)
	if err != nil {
		return &StorageFailure{I: i, J: j, Index: idx, Op: "read", Err: err}
	}
	if got != want {
		return &StorageFailure{I: i, J: j, Index: idx, Op: "read",
			Err: fmt.Errorf("%w: slot %d holds %d, expected %d", permerrors.ErrPermutationMismatch, idx, got, want)}
	}
	return nil
}

// IsStorageFailure reports whether err aborted a run mid-way, returning the
// failure if so.
func IsStorageFailure(err error) (*StorageFailure, bool) {
	var sf *StorageFailure
	if errors.As(err, &sf) {
		return sf, true
	}
	return nil, false
}
