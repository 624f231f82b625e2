package permsort

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns an RNG seeded from the test name, so every test draws a
// different but reproducible sequence.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// strategy names a store constructor so tests can run against both.
type strategy struct {
	name string
	open func(path string, width, count int, opts ...StoreOption) (Store, error)
}

var strategies = []strategy{
	{
		name: "single",
		open: func(path string, width, count int, opts ...StoreOption) (Store, error) {
			s, err := OpenSingleHandle(path, width, count, opts...)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	},
	{
		name: "multi",
		open: func(path string, width, count int, opts ...StoreOption) (Store, error) {
			s, err := OpenMultiHandle(path, width, count, opts...)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	},
}

// writeRecordFile creates a record file holding perm in a fresh temp dir.
func writeRecordFile(t testing.TB, perm []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.txt")
	require.NoError(t, CreateRecordFile(path, perm))
	return path
}

// openFor opens a store of the given strategy sized for perm and registers
// its Close with t.Cleanup.
func openFor(t testing.TB, st strategy, path string, perm []int, opts ...StoreOption) Store {
	t.Helper()
	store, err := st.open(path, RecordWidth(len(perm)), len(perm), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// readSlots decodes the file at path.
func readSlots(t testing.TB, path string) []int {
	t.Helper()
	got, err := ReadPermutation(path)
	require.NoError(t, err)
	return got
}

// identity returns 1..n.
func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i + 1
	}
	return perm
}

// randomPermutation draws a permutation of 1..n from rng.
func randomPermutation(rng *rand.Rand, n int) []int {
	return Shuffle(n, rng.Uint64())
}

// swapsBefore simulates the cycle walk on perm and returns the number of
// swaps completed before the first swap that touches slot k, and whether
// such a swap exists.
func swapsBefore(perm []int, k int) (int, bool) {
	cur := append([]int(nil), perm...)
	swaps := 0
	for i := 0; i < len(cur); {
		target := cur[i] - 1
		if target == i {
			i++
			continue
		}
		if i == k || target == k {
			return swaps, true
		}
		cur[i] = cur[target]
		cur[target] = target + 1
		swaps++
	}
	return swaps, false
}

func fileBytes(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
