// Package errors defines all exported error sentinels for the permsort library.
//
// This is the single source of truth for error values. Both the top-level
// permsort package and internal packages import from here, so errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Record codec errors
var (
	ErrMalformedRecord = errors.New("permsort: malformed record: no leading digits")
	ErrRecordOverflow  = errors.New("permsort: value does not fit in record width")
	ErrInvalidValue    = errors.New("permsort: record value must be non-negative")
)

// Store errors
var (
	ErrIOUnavailable   = errors.New("permsort: backing file unavailable for read-write")
	ErrIndexOutOfRange = errors.New("permsort: record index out of range")
	ErrRecordWidth     = errors.New("permsort: buffer length does not match record width")
	ErrStoreClosed     = errors.New("permsort: store is closed")
)

// Engine errors
var (
	ErrStorageFailure      = errors.New("permsort: storage failure during permutation")
	ErrInvalidPermutation  = errors.New("permsort: not a permutation of 1..N")
	ErrPermutationMismatch = errors.New("permsort: record contents disagree with permutation")
)

// Verification errors
var (
	ErrNotSorted = errors.New("permsort: record file is not sorted")
)
