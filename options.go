package permsort

import (
	"io"
	"log/slog"

	"github.com/tamirms/permsort/internal/fs"
)

// StoreOption is a functional option for configuring record stores.
type StoreOption func(*storeConfig)

// SortOption is a functional option for configuring SortInPlace.
type SortOption func(*sortConfig)

type storeConfig struct {
	fs             fs.FileSystem
	randomHint     bool // FADV_RANDOM on single-handle stores
	descriptorTest bool // compare 2N against RLIMIT_NOFILE before opening a pool
}

func defaultStoreConfig() *storeConfig {
	return &storeConfig{
		fs:             fs.Default,
		randomHint:     true,
		descriptorTest: true,
	}
}

type sortConfig struct {
	logger      *slog.Logger
	recordCheck bool
	swapHook    func(i, j int)
}

func defaultSortConfig() *sortConfig {
	return &sortConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithRandomAccessHint controls whether the single-handle store advises the
// kernel that its file is accessed randomly. Enabled by default; Linux only.
func WithRandomAccessHint(enabled bool) StoreOption {
	return func(c *storeConfig) {
		c.randomHint = enabled
	}
}

// WithDescriptorCheck controls whether the multi-handle store compares the
// 2N descriptors it needs against the process open-file limit before opening
// any of them. Enabled by default.
func WithDescriptorCheck(enabled bool) StoreOption {
	return func(c *storeConfig) {
		c.descriptorTest = enabled
	}
}

// withFileSystem substitutes the filesystem used to open handles.
func withFileSystem(fsys fs.FileSystem) StoreOption {
	return func(c *storeConfig) {
		c.fs = fsys
	}
}

// WithLogger sets the logger used for run start and completion events.
// A nil logger keeps the default, which discards output.
func WithLogger(l *slog.Logger) SortOption {
	return func(c *sortConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecordCheck decodes every record read during a run and compares it with
// the value the permutation says occupies that slot. A disagreement aborts the
// run with ErrPermutationMismatch.
func WithRecordCheck() SortOption {
	return func(c *sortConfig) {
		c.recordCheck = true
	}
}

// WithSwapHook registers fn to be called after each completed swap of
// slots i and j. fn runs on the sorting goroutine.
func WithSwapHook(fn func(i, j int)) SortOption {
	return func(c *sortConfig) {
		c.swapHook = fn
	}
}
