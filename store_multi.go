package permsort

import (
	"errors"
	"fmt"
	"io"

	permerrors "github.com/tamirms/permsort/errors"
	"github.com/tamirms/permsort/internal/fs"
)

// cursor is one handle parked at a record's home offset. It owns no data;
// pos is the handle's file position as last observed, or -1 when unknown.
type cursor struct {
	f    fs.File
	home int64
	pos  int64
}

// align moves the handle back to its home offset if an earlier access left
// it elsewhere. It reports whether a seek was issued.
func (c *cursor) align() (bool, error) {
	if c.pos == c.home {
		return false, nil
	}
	if _, err := c.f.Seek(c.home, io.SeekStart); err != nil {
		c.pos = -1
		return true, err
	}
	c.pos = c.home
	return true, nil
}

// MultiHandleStore keeps two handles per record, one for reads and one for
// writes, each positioned at the record's offset when the store is opened.
// An access advances only its own handle, so the first read and first write
// of every record issue no seek. A record touched again is re-seeked home
// first.
//
// The store holds 2N open descriptors for its whole lifetime.
type MultiHandleStore struct {
	layout
	readers []cursor
	writers []cursor
	stats   StoreStats
	closed  bool
}

var _ Store = (*MultiHandleStore)(nil)

// OpenMultiHandle opens 2*count handles on path, one read and one write
// handle per record, and seeks each to its record's offset. It fails with
// ErrIOUnavailable if any handle cannot be opened read-write, if the file
// is shorter than count*width bytes, or if 2*count exceeds the process
// open-file limit. Handles opened before a failure are closed.
func OpenMultiHandle(path string, width, count int, opts ...StoreOption) (*MultiHandleStore, error) {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	l, err := newLayout(width, count)
	if err != nil {
		return nil, err
	}

	need := uint64(2 * count)
	if cfg.descriptorTest {
		if limit, ok := openFileLimit(); ok && need > limit {
			return nil, fmt.Errorf("%w: %d records need %d descriptors, open-file limit is %d",
				permerrors.ErrIOUnavailable, count, need, limit)
		}
	}

	s := &MultiHandleStore{
		layout:  l,
		readers: make([]cursor, 0, count),
		writers: make([]cursor, 0, count),
	}
	if err := s.fill(&s.readers, cfg.fs, path); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	if err := s.fill(&s.writers, cfg.fs, path); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return s, nil
}

// fill opens one handle per record into pool and parks it at home.
func (s *MultiHandleStore) fill(pool *[]cursor, fsys fs.FileSystem, path string) error {
	for i := range s.count {
		f, err := openRecordFile(fsys, path, s.layout)
		if err != nil {
			return fmt.Errorf("handle %d: %w", i, err)
		}
		s.stats.Handles++
		c := cursor{f: f, home: s.offset(i), pos: -1}
		*pool = append(*pool, c)
		if _, err := (*pool)[len(*pool)-1].align(); err != nil {
			return fmt.Errorf("%w: seek handle %d: %w", permerrors.ErrIOUnavailable, i, err)
		}
		s.stats.SetupSeeks++
	}
	return nil
}

func (s *MultiHandleStore) access(c *cursor, buf []byte, write bool) error {
	seeked, err := c.align()
	if seeked {
		s.stats.Seeks++
	}
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if write {
		err = writeFull(c.f, buf)
	} else {
		err = readFull(c.f, buf)
	}
	if err != nil {
		c.pos = -1
		return err
	}
	c.pos += int64(len(buf))
	return nil
}

// ReadRecord reads record index through its read handle.
func (s *MultiHandleStore) ReadRecord(index int, dst []byte) error {
	if s.closed {
		return permerrors.ErrStoreClosed
	}
	if err := s.check(index, dst); err != nil {
		return err
	}
	if err := s.access(&s.readers[index], dst, false); err != nil {
		return fmt.Errorf("read record %d: %w", index, err)
	}
	s.stats.Reads++
	return nil
}

// WriteRecord overwrites record index through its write handle.
func (s *MultiHandleStore) WriteRecord(index int, src []byte) error {
	if s.closed {
		return permerrors.ErrStoreClosed
	}
	if err := s.check(index, src); err != nil {
		return err
	}
	if err := s.access(&s.writers[index], src, true); err != nil {
		return fmt.Errorf("write record %d: %w", index, err)
	}
	s.stats.Writes++
	return nil
}

func (s *MultiHandleStore) RecordWidth() int { return s.width }
func (s *MultiHandleStore) RecordCount() int { return s.count }
func (s *MultiHandleStore) Stats() StoreStats { return s.stats }

// Close closes every open handle and joins their errors. Subsequent calls
// return nil.
func (s *MultiHandleStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, pool := range [][]cursor{s.readers, s.writers} {
		for i := range pool {
			if err := pool[i].f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	s.readers, s.writers = nil, nil
	return errors.Join(errs...)
}
