//go:build linux || darwin

package permsort

import "golang.org/x/sys/unix"

// openFileLimit returns the soft RLIMIT_NOFILE of the process.
func openFileLimit() (uint64, bool) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, false
	}
	return rl.Cur, true
}
