package permsort

import (
	"fmt"
	"math/rand/v2"

	permerrors "github.com/tamirms/permsort/errors"
	intbits "github.com/tamirms/permsort/internal/bits"
)

// A permutation is a slice perm of length N holding each of 1..N exactly once.
// perm[i] is the value physically stored in slot i; slot i is home for value i+1.

// ValidatePermutation reports ErrInvalidPermutation unless perm holds each of
// 1..len(perm) exactly once.
func ValidatePermutation(perm []int) error {
	n := len(perm)
	seen := intbits.NewSet(n)
	for i, v := range perm {
		if v < 1 || v > n {
			return fmt.Errorf("%w: slot %d holds %d, want 1..%d", permerrors.ErrInvalidPermutation, i, v, n)
		}
		if seen.Contains(v - 1) {
			return fmt.Errorf("%w: value %d appears twice (again at slot %d)", permerrors.ErrInvalidPermutation, v, i)
		}
		seen.Add(v - 1)
	}
	return nil
}

// FixedPoints returns the number of slots already holding their home value.
func FixedPoints(perm []int) int {
	n := 0
	for i, v := range perm {
		if v == i+1 {
			n++
		}
	}
	return n
}

// Cycles returns the non-trivial cycles of perm as zero-based slot indices,
// each starting at its smallest slot, in order of that slot. Following a
// cycle, slot c[k] holds the value whose home is c[k+1].
//
// For a perm that fails ValidatePermutation the result is meaningless but
// Cycles does not panic: a walk stops at a value outside 1..N or at a slot
// already visited.
func Cycles(perm []int) [][]int {
	n := len(perm)
	visited := intbits.NewSet(n)
	var cycles [][]int
	for start := range perm {
		if visited.Contains(start) || perm[start] == start+1 {
			continue
		}
		var c []int
		for j := start; j >= 0 && j < n && !visited.Contains(j); j = perm[j] - 1 {
			visited.Add(j)
			c = append(c, j)
		}
		if len(c) > 1 {
			cycles = append(cycles, c)
		}
	}
	return cycles
}

// ExpectedSwaps returns the number of swaps SortInPlace performs on perm:
// one less than the length of each non-trivial cycle, summed. This is the
// minimum number of transpositions that sorts perm. Like Cycles, it never
// panics on an invalid perm; validate first when the count matters.
func ExpectedSwaps(perm []int) int {
	swaps := 0
	for _, c := range Cycles(perm) {
		swaps += len(c) - 1
	}
	return swaps
}

// Shuffle returns a uniformly random permutation of 1..n drawn with a
// Fisher-Yates shuffle from a PCG source seeded with seed.
func Shuffle(n int, seed uint64) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i + 1
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	for i := n - 1; i > 0; i-- {
		j := int(intbits.FastRange(rng.Uint64(), uint64(i+1)))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
