//go:build darwin

package permsort

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile sizes a record file to n*W bytes before the records are
// streamed in.
func fallocateFile(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	// A failed reservation is not fatal; the record writes still land.
	_ = unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)

	// F_PREALLOCATE reserves blocks only; the record count comes from st_size.
	return unix.Ftruncate(int(file.Fd()), size)
}
