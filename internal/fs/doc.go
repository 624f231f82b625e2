// Package fs provides the filesystem seam used by record stores.
//
// The package defines two interfaces:
//
//   - [File]: an open positional handle with read/write/seek capabilities
//   - [FileSystem]: opens files
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: fault injection at byte offsets, open counts and close
//
// Stores use [Default] unless a test substitutes a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetFault(fs.Fault{FailReadAt: 3 * width, FailWriteAt: -1})
//
// There are no context.Context parameters. Local file operations are not
// interruptible at the syscall level.
package fs
