package permsort

import (
	"fmt"
	"io"

	permerrors "github.com/tamirms/permsort/errors"
	"github.com/tamirms/permsort/internal/fs"
)

// SingleHandleStore serves every record access through one file handle,
// seeking to the record's offset before each read and each write.
// A swap therefore costs four seeks.
type SingleHandleStore struct {
	layout
	f      fs.File
	stats  StoreStats
	closed bool
}

var _ Store = (*SingleHandleStore)(nil)

// OpenSingleHandle opens path for read-write access to count records of the
// given width. It fails with ErrIOUnavailable if the file cannot be opened
// read-write or is shorter than count*width bytes.
func OpenSingleHandle(path string, width, count int, opts ...StoreOption) (*SingleHandleStore, error) {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	l, err := newLayout(width, count)
	if err != nil {
		return nil, err
	}

	f, err := openRecordFile(cfg.fs, path, l)
	if err != nil {
		return nil, err
	}
	if cfg.randomHint {
		if fd, ok := fs.Fd(f); ok {
			fadviseRandom(fd, 0, l.size())
		}
	}

	return &SingleHandleStore{
		layout: l,
		f:      f,
		stats:  StoreStats{Handles: 1},
	}, nil
}

func (s *SingleHandleStore) seek(index int) error {
	if _, err := s.f.Seek(s.offset(index), io.SeekStart); err != nil {
		return fmt.Errorf("seek record %d: %w", index, err)
	}
	s.stats.Seeks++
	return nil
}

// ReadRecord seeks to record index and reads it into dst.
func (s *SingleHandleStore) ReadRecord(index int, dst []byte) error {
	if s.closed {
		return permerrors.ErrStoreClosed
	}
	if err := s.check(index, dst); err != nil {
		return err
	}
	if err := s.seek(index); err != nil {
		return err
	}
	if err := readFull(s.f, dst); err != nil {
		return fmt.Errorf("read record %d: %w", index, err)
	}
	s.stats.Reads++
	return nil
}

// WriteRecord seeks to record index and overwrites it with src.
func (s *SingleHandleStore) WriteRecord(index int, src []byte) error {
	if s.closed {
		return permerrors.ErrStoreClosed
	}
	if err := s.check(index, src); err != nil {
		return err
	}
	if err := s.seek(index); err != nil {
		return err
	}
	if err := writeFull(s.f, src); err != nil {
		return fmt.Errorf("write record %d: %w", index, err)
	}
	s.stats.Writes++
	return nil
}

func (s *SingleHandleStore) RecordWidth() int { return s.width }
func (s *SingleHandleStore) RecordCount() int { return s.count }
func (s *SingleHandleStore) Stats() StoreStats { return s.stats }

// Close closes the handle. Subsequent calls return nil.
func (s *SingleHandleStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}
