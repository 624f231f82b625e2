//go:build !linux && !darwin

package permsort

import "os"

// fallocateFile sets the record file's length; no blocks are reserved here.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
