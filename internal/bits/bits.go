// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// FastRange maps a 64-bit random value uniformly to [0, n).
// Uses the "fastrange" technique: multiply and take high bits.
// This is the standard way to map hashes to ranges without modulo bias.
func FastRange(hash, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(hash, n)
	return hi
}

// Set is a fixed-capacity bit set indexed from zero.
type Set []uint64

// NewSet returns a Set able to hold indices [0, n).
func NewSet(n int) Set {
	return make(Set, (n+63)/64)
}

// Add marks index i.
func (s Set) Add(i int) {
	s[i>>6] |= 1 << (uint(i) & 63)
}

// Contains reports whether index i is marked.
func (s Set) Contains(i int) bool {
	return s[i>>6]&(1<<(uint(i)&63)) != 0
}

// Count returns the number of marked indices.
func (s Set) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}
