package qfit

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat reports a file whose leading word matches no
	// known record length under either byte order. Fatal: nothing in the
	// file can be decoded.
	ErrUnsupportedFormat = errors.New("qfit: unsupported record format")

	// ErrTruncatedFile reports a file whose size is not a whole number of
	// records. Fatal: the record grid cannot be trusted.
	ErrTruncatedFile = errors.New("qfit: truncated file")

	// ErrFieldOutOfRange matches per-record field range violations (see
	// FieldRangeError). Recoverable in Lenient mode.
	ErrFieldOutOfRange = errors.New("qfit: field value out of range")
)

// FieldRangeError reports a single record whose decoded field violates its
// valid range, typically a time-of-day outside [0, 86400) indicating day
// rollover or corruption. It matches ErrFieldOutOfRange under errors.Is.
type FieldRangeError struct {
	Index int     // zero-based data record index
	Field string  // field name from the variant's layout
	Value float64 // offending decoded value
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("qfit: record %d: field %s value %g out of range", e.Index, e.Field, e.Value)
}

// Is reports whether target is ErrFieldOutOfRange.
func (e *FieldRangeError) Is(target error) bool {
	return target == ErrFieldOutOfRange
}
