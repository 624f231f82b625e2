//go:build !linux

package permsort

// fadviseRandom is a no-op on non-Linux platforms.
// FADV_RANDOM is Linux-specific.
func fadviseRandom(fd uintptr, offset, length int64) {
	// No-op
}
