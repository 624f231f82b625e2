package permsort

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	permerrors "github.com/tamirms/permsort/errors"
)

func TestSortInPlaceRestoresOrder(t *testing.T) {
	rng := newTestRNG(t)
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			for _, n := range []int{1, 2, 3, 9, 10, 11, 99, 100, 257} {
				perm := randomPermutation(rng, n)
				path := writeRecordFile(t, perm)
				store := openFor(t, st, path, perm)

				stats, err := SortInPlace(store, perm)
				require.NoError(t, err, "n=%d", n)
				require.NoError(t, store.Close())

				assert.Equal(t, identity(n), readSlots(t, path), "n=%d", n)
				require.NoError(t, VerifySorted(path))
				assert.Equal(t, ExpectedSwaps(perm), stats.Swaps, "n=%d", n)
				assert.Equal(t, n, stats.Records)
				assert.Equal(t, FixedPoints(perm), stats.FixedPoints)
			}
		})
	}
}

func TestSortInPlaceConcreteScenario(t *testing.T) {
	perm := []int{3, 1, 2, 6, 4, 5}

	assert.Equal(t, [][]int{{0, 2, 1}, {3, 5, 4}}, Cycles(perm))
	assert.Equal(t, 4, ExpectedSwaps(perm))

	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			path := writeRecordFile(t, perm)
			assert.Equal(t, "3  \n1  \n2  \n6  \n4  \n5  \n", string(fileBytes(t, path)))

			var swaps [][2]int
			store := openFor(t, st, path, perm)
			stats, err := SortInPlace(store, perm, WithSwapHook(func(i, j int) {
				swaps = append(swaps, [2]int{i, j})
			}))
			require.NoError(t, err)
			require.NoError(t, store.Close())

			assert.Equal(t, 4, stats.Swaps)
			assert.Equal(t, [][2]int{{0, 2}, {0, 1}, {3, 5}, {3, 4}}, swaps)
			assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, readSlots(t, path))
			assert.Equal(t, "1  \n2  \n3  \n4  \n5  \n6  \n", string(fileBytes(t, path)))
		})
	}
}

func TestSortInPlaceIdentityIsNoop(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			perm := identity(50)
			path := writeRecordFile(t, perm)
			before := fileBytes(t, path)

			store := openFor(t, st, path, perm)
			stats, err := SortInPlace(store, perm)
			require.NoError(t, err)

			assert.Zero(t, stats.Swaps)
			assert.Equal(t, 50, stats.FixedPoints)
			assert.Zero(t, stats.Store.Reads)
			assert.Zero(t, stats.Store.Writes)
			assert.Zero(t, stats.Store.Seeks)
			require.NoError(t, store.Close())
			assert.Equal(t, before, fileBytes(t, path))
		})
	}
}

func TestSortInPlaceIsIdempotent(t *testing.T) {
	rng := newTestRNG(t)
	perm := randomPermutation(rng, 120)
	path := writeRecordFile(t, perm)

	store := openFor(t, strategies[0], path, perm)
	_, err := SortInPlace(store, perm)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	sorted := fileBytes(t, path)

	// The file now matches the identity; a second run does nothing.
	store = openFor(t, strategies[1], path, perm)
	stats, err := SortInPlace(store, identity(120))
	require.NoError(t, err)
	assert.Zero(t, stats.Swaps)
	require.NoError(t, store.Close())
	assert.Equal(t, sorted, fileBytes(t, path))
}

func TestSortInPlaceSwapCountBound(t *testing.T) {
	rng := newTestRNG(t)
	for range 50 {
		n := 2 + rng.IntN(60)
		perm := randomPermutation(rng, n)
		path := writeRecordFile(t, perm)
		store := openFor(t, strategies[0], path, perm)

		stats, err := SortInPlace(store, perm)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		cycles := len(Cycles(perm)) + FixedPoints(perm)
		assert.Equal(t, n-cycles, stats.Swaps)
		assert.LessOrEqual(t, stats.Swaps, n-1)
		assert.LessOrEqual(t, stats.Swaps, n-stats.FixedPoints)
	}
}

func TestSortInPlaceSingleCycle(t *testing.T) {
	// [2,3,...,n,1]: one n-cycle, the worst case of n-1 swaps.
	const n = 64
	perm := make([]int, n)
	for i := range perm {
		perm[i] = (i+1)%n + 1
	}
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			path := writeRecordFile(t, perm)
			store := openFor(t, st, path, perm)
			stats, err := SortInPlace(store, perm)
			require.NoError(t, err)
			require.NoError(t, store.Close())
			assert.Equal(t, n-1, stats.Swaps)
			require.NoError(t, VerifySorted(path))
		})
	}
}

func TestSortInPlaceStrategiesProduceIdenticalFiles(t *testing.T) {
	rng := newTestRNG(t)
	for _, n := range []int{7, 100, 300} {
		perm := randomPermutation(rng, n)
		paths := make([]string, len(strategies))
		for k, st := range strategies {
			paths[k] = writeRecordFile(t, perm)
			store := openFor(t, st, paths[k], perm)
			_, err := SortInPlace(store, perm)
			require.NoError(t, err)
			require.NoError(t, store.Close())
		}

		assert.Equal(t, fileBytes(t, paths[0]), fileBytes(t, paths[1]), "n=%d", n)
		d0, err := Digest(paths[0])
		require.NoError(t, err)
		d1, err := Digest(paths[1])
		require.NoError(t, err)
		assert.Equal(t, d0, d1, "n=%d", n)
	}
}

func TestSortInPlaceDoesNotMutateCallerPermutation(t *testing.T) {
	rng := newTestRNG(t)
	perm := randomPermutation(rng, 40)
	orig := slices.Clone(perm)

	path := writeRecordFile(t, perm)
	store := openFor(t, strategies[0], path, perm)
	_, err := SortInPlace(store, perm)
	require.NoError(t, err)
	assert.Equal(t, orig, perm)
}

func TestSortInPlaceRejectsInvalidPermutation(t *testing.T) {
	cases := map[string][]int{
		"duplicate":  {1, 1, 3},
		"zero":       {0, 2, 3},
		"too large":  {1, 2, 4},
		"negative":   {-1, 2, 3},
		"wrong size": {1, 2},
	}
	for name, perm := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeRecordFile(t, []int{3, 1, 2})
			before := fileBytes(t, path)
			store := openFor(t, strategies[0], path, []int{3, 1, 2})

			_, err := SortInPlace(store, perm)
			require.ErrorIs(t, err, permerrors.ErrInvalidPermutation)
			assert.Zero(t, store.Stats().Reads, "no I/O before validation")
			assert.Equal(t, before, fileBytes(t, path))
		})
	}
}

func TestSortInPlaceEmptyStore(t *testing.T) {
	path := writeRecordFile(t, nil)
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			store := openFor(t, st, path, nil)
			stats, err := SortInPlace(store, nil)
			require.NoError(t, err)
			assert.Zero(t, stats.Swaps)
		})
	}
}

func TestSortInPlaceRecordCheck(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			// The file holds [2,1,3] but the caller claims [3,1,2].
			path := writeRecordFile(t, []int{2, 1, 3})
			perm := []int{3, 1, 2}
			store := openFor(t, st, path, perm)

			stats, err := SortInPlace(store, perm, WithRecordCheck())
			require.ErrorIs(t, err, permerrors.ErrPermutationMismatch)
			require.ErrorIs(t, err, permerrors.ErrStorageFailure)

			sf, ok := IsStorageFailure(err)
			require.True(t, ok)
			assert.Equal(t, 0, sf.I)
			assert.Equal(t, 2, sf.J)
			assert.Equal(t, 0, sf.Index)
			assert.Equal(t, "read", sf.Op)
			assert.Zero(t, stats.Swaps)
		})
	}
}

func TestSortInPlaceRecordCheckPassesOnConsistentFile(t *testing.T) {
	rng := newTestRNG(t)
	perm := randomPermutation(rng, 90)
	path := writeRecordFile(t, perm)
	store := openFor(t, strategies[1], path, perm)

	stats, err := SortInPlace(store, perm, WithRecordCheck())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSwaps(perm), stats.Swaps)
}

func TestSortInPlaceRecordCheckMalformedSlot(t *testing.T) {
	path := writeRecordFile(t, []int{2, 1})
	data := fileBytes(t, path)
	data[0] = 'x'
	writeBytes(t, path, data)

	store := openFor(t, strategies[0], path, []int{2, 1})
	_, err := SortInPlace(store, []int{2, 1}, WithRecordCheck())
	require.ErrorIs(t, err, permerrors.ErrMalformedRecord)
	require.ErrorIs(t, err, permerrors.ErrStorageFailure)
}

func TestSortInPlaceLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	perm := []int{2, 1, 3}
	path := writeRecordFile(t, perm)
	store := openFor(t, strategies[0], path, perm)
	_, err := SortInPlace(store, perm, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "permutation run started"), out)
	assert.True(t, strings.Contains(out, "permutation run finished"), out)
	assert.True(t, strings.Contains(out, "swaps=1"), out)
}

func TestSortInPlaceStoreSeekAccounting(t *testing.T) {
	perm := []int{3, 1, 2, 6, 4, 5}

	t.Run("single", func(t *testing.T) {
		path := writeRecordFile(t, perm)
		store := openFor(t, strategies[0], path, perm)
		stats, err := SortInPlace(store, perm)
		require.NoError(t, err)
		// Four seeks per swap.
		assert.Equal(t, 16, stats.Store.Seeks)
		assert.Zero(t, stats.Store.SetupSeeks)
		assert.Equal(t, 1, stats.Store.Handles)
		assert.Equal(t, 8, stats.Store.Reads)
		assert.Equal(t, 8, stats.Store.Writes)
	})

	t.Run("multi", func(t *testing.T) {
		path := writeRecordFile(t, perm)
		store := openFor(t, strategies[1], path, perm)
		stats, err := SortInPlace(store, perm)
		require.NoError(t, err)
		assert.Equal(t, 12, stats.Store.Handles)
		assert.Equal(t, 12, stats.Store.SetupSeeks)
		// Each 3-cycle revisits its first slot once: one read and one
		// write re-seek per revisit.
		assert.Equal(t, 4, stats.Store.Seeks)
		assert.Equal(t, 8, stats.Store.Reads)
		assert.Equal(t, 8, stats.Store.Writes)
	})
}

func TestSortInPlaceMultiTranspositionsNeedNoSteadySeeks(t *testing.T) {
	// Disjoint transpositions: every slot is touched by exactly one swap.
	perm := []int{2, 1, 4, 3, 6, 5, 8, 7}
	path := writeRecordFile(t, perm)
	store := openFor(t, strategies[1], path, perm)

	stats, err := SortInPlace(store, perm)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Swaps)
	assert.Zero(t, stats.Store.Seeks)
	require.NoError(t, VerifySorted(path))
}
