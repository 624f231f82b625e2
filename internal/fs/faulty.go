package fs

import (
	"errors"
	"os"
	"sync"
)

// Fault defines failure behavior for every file opened through a FaultyFS.
type Fault struct {
	FailReadAt  int64 // Fail any read whose byte range covers this offset. -1 to disable.
	FailWriteAt int64 // Fail any write whose byte range covers this offset. -1 to disable.
	FailOpenAt  int   // Fail the n-th OpenFile call (1-based). 0 to disable.
	FailOnClose bool
	Err         error
}

// ErrInjected is returned by a FaultyFS when Fault.Err is nil.
var ErrInjected = errors.New("injected fault error")

// FaultyFS is a FileSystem wrapper that can inject errors and counts
// handle lifecycle events.
type FaultyFS struct {
	FS FileSystem

	mu      sync.Mutex
	fault   Fault
	opens   int
	open    int // currently open handles
	seeks   int
	reads   int
	writes  int
	tripped bool
	// writes observed after the first injected failure
	writesAfterTrip int
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
// No faults are active until SetFault is called.
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:    fs,
		fault: Fault{FailReadAt: -1, FailWriteAt: -1},
	}
}

// SetFault replaces the active fault rule.
func (f *FaultyFS) SetFault(fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fault = fault
}

// Counts reports lifecycle counters.
type Counts struct {
	Opens           int // successful and failed OpenFile calls
	Open            int // handles not yet closed
	Seeks           int
	Reads           int
	Writes          int
	Tripped         bool // an injected fault fired
	WritesAfterTrip int
}

// Counts returns a snapshot of the counters.
func (f *FaultyFS) Counts() Counts {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Counts{
		Opens:           f.opens,
		Open:            f.open,
		Seeks:           f.seeks,
		Reads:           f.reads,
		Writes:          f.writes,
		Tripped:         f.tripped,
		WritesAfterTrip: f.writesAfterTrip,
	}
}

func (f *FaultyFS) errLocked() error {
	f.tripped = true
	if f.fault.Err != nil {
		return f.fault.Err
	}
	return ErrInjected
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f.mu.Lock()
	f.opens++
	if f.fault.FailOpenAt > 0 && f.opens == f.fault.FailOpenAt {
		err := f.errLocked()
		f.mu.Unlock()
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	f.mu.Unlock()

	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.open++
	f.mu.Unlock()
	return &faultyFile{File: file, fs: f}, nil
}

type faultyFile struct {
	File
	fs     *FaultyFS
	pos    int64
	closed bool
}

func covers(pos int64, n int, off int64) bool {
	return off >= 0 && off >= pos && off < pos+int64(n)
}

func (ff *faultyFile) Seek(offset int64, whence int) (int64, error) {
	n, err := ff.File.Seek(offset, whence)
	if err == nil {
		ff.pos = n
	}
	ff.fs.mu.Lock()
	ff.fs.seeks++
	ff.fs.mu.Unlock()
	return n, err
}

func (ff *faultyFile) Read(p []byte) (int, error) {
	ff.fs.mu.Lock()
	ff.fs.reads++
	if covers(ff.pos, len(p), ff.fs.fault.FailReadAt) {
		err := ff.fs.errLocked()
		ff.fs.mu.Unlock()
		return 0, err
	}
	ff.fs.mu.Unlock()

	n, err := ff.File.Read(p)
	ff.pos += int64(n)
	return n, err
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	ff.fs.mu.Lock()
	ff.fs.writes++
	if ff.fs.tripped {
		ff.fs.writesAfterTrip++
	}
	if covers(ff.pos, len(p), ff.fs.fault.FailWriteAt) {
		err := ff.fs.errLocked()
		ff.fs.mu.Unlock()
		return 0, err
	}
	ff.fs.mu.Unlock()

	n, err := ff.File.Write(p)
	ff.pos += int64(n)
	return n, err
}

func (ff *faultyFile) Close() error {
	ff.fs.mu.Lock()
	if !ff.closed {
		ff.closed = true
		ff.fs.open--
	}
	failClose := ff.fs.fault.FailOnClose
	var injected error
	if failClose {
		injected = ff.fs.errLocked()
	}
	ff.fs.mu.Unlock()

	err := ff.File.Close()
	if failClose {
		return injected
	}
	return err
}
