//go:build !linux && !darwin

package permsort

// openFileLimit reports no known limit on platforms without getrlimit.
func openFileLimit() (uint64, bool) {
	return 0, false
}
