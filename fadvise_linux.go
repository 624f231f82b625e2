//go:build linux

package permsort

import "golang.org/x/sys/unix"

// fadviseRandom hints to the kernel that the file will be accessed at
// random offsets, disabling readahead for the single-handle store.
// Best-effort: errors are silently ignored.
func fadviseRandom(fd uintptr, offset, length int64) {
	_ = unix.Fadvise(int(fd), offset, length, unix.FADV_RANDOM)
}
