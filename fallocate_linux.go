//go:build linux

package permsort

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile sizes a record file to n*W bytes before the records are
// streamed in, so the generator never extends the file one buffer at a time.
func fallocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	if err := unix.Fallocate(fd, 0, 0, size); err != nil {
		// tmpfs and NFS may refuse; a sparse file of the right length works.
		return unix.Ftruncate(fd, size)
	}
	// Mode 0 may leave st_size short when the range was already allocated.
	return unix.Ftruncate(fd, size)
}
