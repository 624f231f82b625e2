package permsort

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/zeebo/xxh3"

	permerrors "github.com/tamirms/permsort/errors"
	"github.com/tamirms/permsort/internal/record"
)

// writeBufferSize is the buffered writer size used when generating files.
const writeBufferSize = 256 * 1024

// RecordWidth returns the record width of a file holding n records.
func RecordWidth(n int) int {
	return record.Width(n)
}

// CreateRecordFile writes perm to path as a record file of width
// RecordWidth(len(perm)), replacing any existing file. Disk space for the
// whole file is reserved before writing. perm is written as given and is not
// required to be a valid permutation.
func CreateRecordFile(path string, perm []int) error {
	n := len(perm)
	width := record.Width(n)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create record file: %w", err)
	}
	if err := fallocateFile(f, int64(n)*int64(width)); err != nil {
		return errors.Join(fmt.Errorf("allocate record file: %w", err), f.Close())
	}

	w := bufio.NewWriterSize(f, writeBufferSize)
	buf := make([]byte, width)
	for i, v := range perm {
		if err := record.Encode(buf, v); err != nil {
			return errors.Join(fmt.Errorf("encode slot %d: %w", i, err), f.Close())
		}
		if _, err := w.Write(buf); err != nil {
			return errors.Join(fmt.Errorf("write slot %d: %w", i, err), f.Close())
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Join(fmt.Errorf("flush record file: %w", err), f.Close())
	}
	return f.Close()
}

// recordLayout derives the record count and width of a file from its size.
// N records of width Digits(N)+2 occupy a size no other N produces.
func recordLayout(size int64) (n, width int, err error) {
	if size == 0 {
		return 0, record.Width(0), nil
	}
	for d := 1; d <= 19; d++ {
		w := int64(d + 2)
		if size%w != 0 {
			continue
		}
		if count := size / w; record.Digits(int(count)) == d {
			return int(count), int(w), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %d bytes is not a whole record file", permerrors.ErrMalformedRecord, size)
}

// withMappedFile memory-maps path read-only and calls fn with its contents
// and record geometry. data is only valid during fn.
func withMappedFile(path string, fn func(data []byte, n, width int) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat record file: %w", err)
	}
	n, width, err := recordLayout(info.Size())
	if err != nil {
		return err
	}
	if n == 0 {
		return fn(nil, 0, width)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmap record file: %w", err)
	}
	defer func() {
		err = errors.Join(err, mm.Unmap())
	}()
	data := []byte(mm)
	madviseSequential(data)
	return fn(data, n, width)
}

// decodeSlot decodes slot i of a mapped record file.
func decodeSlot(data []byte, i, width int) (int, error) {
	slot := data[i*width : (i+1)*width]
	if slot[width-1] != record.Terminator {
		return 0, fmt.Errorf("%w: slot %d is not terminated", permerrors.ErrMalformedRecord, i)
	}
	v, err := record.Decode(slot)
	if err != nil {
		return 0, fmt.Errorf("slot %d: %w", i, err)
	}
	return v, nil
}

// ReadPermutation decodes every record of the file at path, returning the
// value stored in each slot. The result is not validated as a permutation.
func ReadPermutation(path string) ([]int, error) {
	var perm []int
	err := withMappedFile(path, func(data []byte, n, width int) error {
		perm = make([]int, n)
		for i := range n {
			v, err := decodeSlot(data, i, width)
			if err != nil {
				return err
			}
			perm[i] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return perm, nil
}

// VerifySorted checks that every slot i of the file at path holds i+1.
// It returns ErrNotSorted naming the first slot that does not.
func VerifySorted(path string) error {
	return withMappedFile(path, func(data []byte, n, width int) error {
		for i := range n {
			v, err := decodeSlot(data, i, width)
			if err != nil {
				return err
			}
			if v != i+1 {
				return fmt.Errorf("%w: slot %d holds %d", permerrors.ErrNotSorted, i, v)
			}
		}
		return nil
	})
}

// Digest returns the xxh3 hash of the file at path. Two record files with
// equal digests are, for benchmarking purposes, byte-identical.
func Digest(path string) (uint64, error) {
	var sum uint64
	err := withMappedFile(path, func(data []byte, _, _ int) error {
		sum = xxh3.Hash(data)
		return nil
	})
	return sum, err
}
