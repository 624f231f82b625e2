// Package record encodes and decodes fixed-width textual integer records.
//
// A record of width W holds the decimal digits of a value, right-padded with
// spaces, and a line feed in its final byte:
//
//	W=5, v=42:  '4' '2' ' ' ' ' '\n'
//
// A file of N records uses W = Digits(N) + 2, which always leaves at least one
// padding byte before the terminator.
package record

import (
	"math"

	permerrors "github.com/tamirms/permsort/errors"
)

const (
	// Terminator is the last byte of every record.
	Terminator = '\n'

	// Pad fills the bytes between the digits and the terminator.
	Pad = ' '
)

// Digits returns the number of decimal digits in v. Digits(0) is 1.
// v must be non-negative.
func Digits(v int) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}

// Width returns the record width for a file of n records.
func Width(n int) int {
	return Digits(n) + 2
}

// Encode writes v into dst as one record. len(dst) is the record width.
// It fails with ErrRecordOverflow when v needs more than len(dst)-1 digits.
func Encode(dst []byte, v int) error {
	if v < 0 {
		return permerrors.ErrInvalidValue
	}
	d := Digits(v)
	if d > len(dst)-1 {
		return permerrors.ErrRecordOverflow
	}
	for i := d - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
	for i := d; i < len(dst)-1; i++ {
		dst[i] = Pad
	}
	dst[len(dst)-1] = Terminator
	return nil
}

// Append encodes v as a record of the given width and appends it to dst.
func Append(dst []byte, v, width int) ([]byte, error) {
	if width < 1 {
		return dst, permerrors.ErrRecordOverflow
	}
	n := len(dst)
	dst = append(dst, make([]byte, width)...)
	if err := Encode(dst[n:], v); err != nil {
		return dst[:n], err
	}
	return dst, nil
}

// Decode parses the leading decimal digits of src up to the first non-digit
// byte. It fails with ErrMalformedRecord when src starts with a non-digit or
// the digits overflow int.
func Decode(src []byte) (int, error) {
	v := 0
	n := 0
	for _, c := range src {
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if v > (math.MaxInt-d)/10 {
			return 0, permerrors.ErrMalformedRecord
		}
		v = v*10 + d
		n++
	}
	if n == 0 {
		return 0, permerrors.ErrMalformedRecord
	}
	return v, nil
}
