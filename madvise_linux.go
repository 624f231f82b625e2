//go:build linux

package permsort

import "golang.org/x/sys/unix"

// madviseSequential hints that a mapped record file will be scanned front
// to back. Best-effort: errors are silently ignored.
func madviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
