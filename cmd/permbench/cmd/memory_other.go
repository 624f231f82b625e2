//go:build !linux && !darwin

package cmd

// maxRSS is unavailable without getrusage.
func maxRSS() uint64 {
	return 0
}
