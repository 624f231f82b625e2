package permsort

import (
	"errors"
	"fmt"
	"io"
	"os"

	permerrors "github.com/tamirms/permsort/errors"
	"github.com/tamirms/permsort/internal/fs"
)

// Store is random-access storage for N fixed-width records, addressed by
// record index. Record i occupies bytes [i*W, i*W+W) of the backing file.
//
// Reads and writes go straight to the backing file. A Store is not safe for
// concurrent use and owns its file exclusively until Close.
type Store interface {
	// ReadRecord fills dst with record index. len(dst) must equal RecordWidth.
	ReadRecord(index int, dst []byte) error
	// WriteRecord overwrites record index with src. len(src) must equal RecordWidth.
	WriteRecord(index int, src []byte) error
	RecordWidth() int
	RecordCount() int
	// Stats reports handle and operation counters since the store was opened.
	Stats() StoreStats
	// Close releases every handle. It is safe to call more than once.
	Close() error
}

// StoreStats counts the I/O a store has issued.
type StoreStats struct {
	Handles    int // handles opened
	SetupSeeks int // seeks issued while opening
	Seeks      int // seeks issued by ReadRecord and WriteRecord
	Reads      int
	Writes     int
}

// layout is the record geometry shared by both stores.
type layout struct {
	width int
	count int
}

func newLayout(width, count int) (layout, error) {
	if width < 2 {
		return layout{}, fmt.Errorf("%w: width %d leaves no room for digits", permerrors.ErrRecordWidth, width)
	}
	if count < 0 {
		return layout{}, fmt.Errorf("%w: negative record count %d", permerrors.ErrIndexOutOfRange, count)
	}
	return layout{width: width, count: count}, nil
}

func (l layout) offset(index int) int64 {
	return int64(index) * int64(l.width)
}

func (l layout) size() int64 {
	return int64(l.count) * int64(l.width)
}

func (l layout) check(index int, buf []byte) error {
	if index < 0 || index >= l.count {
		return fmt.Errorf("%w: %d not in [0, %d)", permerrors.ErrIndexOutOfRange, index, l.count)
	}
	if len(buf) != l.width {
		return fmt.Errorf("%w: got %d bytes, want %d", permerrors.ErrRecordWidth, len(buf), l.width)
	}
	return nil
}

// openRecordFile opens one read-write handle on path and checks that the
// file holds the whole record region.
func openRecordFile(fsys fs.FileSystem, path string, l layout) (fs.File, error) {
	f, err := fsys.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", permerrors.ErrIOUnavailable, err)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: stat %s: %w", permerrors.ErrIOUnavailable, path, err), f.Close())
	}
	if info.Size() < l.size() {
		return nil, errors.Join(
			fmt.Errorf("%w: %s is %d bytes, %d records of width %d need %d",
				permerrors.ErrIOUnavailable, path, info.Size(), l.count, l.width, l.size()),
			f.Close())
	}
	return f, nil
}

func readFull(f fs.File, dst []byte) error {
	_, err := io.ReadFull(f, dst)
	return err
}

func writeFull(f fs.File, src []byte) error {
	n, err := f.Write(src)
	if err == nil && n != len(src) {
		err = io.ErrShortWrite
	}
	return err
}
