package cmd

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// repSeed derives the shuffle seed of one repetition. Every strategy sorts
// the same permutations for a given base seed.
func repSeed(base uint64, pow, rep int) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], base)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(pow))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(rep))
	return murmur3.Sum64(buf[:])
}

// digestFold combines per-run file digests, in run order, into one value.
type digestFold struct {
	h   *xxhash.Digest
	buf [8]byte
}

func newDigestFold() *digestFold {
	return &digestFold{h: xxhash.New()}
}

func (f *digestFold) add(digest uint64) {
	binary.LittleEndian.PutUint64(f.buf[:], digest)
	_, _ = f.h.Write(f.buf[:])
}

func (f *digestFold) sum() uint64 {
	return f.h.Sum64()
}
