package fs

import (
	"io"
	"os"
)

// File represents an open file handle with its own position.
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Stat() (os.FileInfo, error)
}

// FileSystem abstracts opening files for testability.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

// Default is the default local file system.
var Default FileSystem = LocalFS{}

// Fd returns the descriptor of f when it is backed by an OS file.
func Fd(f File) (uintptr, bool) {
	type fder interface{ Fd() uintptr }
	if d, ok := f.(fder); ok {
		return d.Fd(), true
	}
	return 0, false
}
