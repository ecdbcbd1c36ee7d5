package qfit

import (
	"errors"
	"fmt"
	"io"

	"github.com/banshee-data/qfit/internal/monitoring"
)

// Mode selects how the Reader treats per-record anomalies. The choice is
// explicit: callers pick one of the two behaviours, never a mix.
type Mode int

const (
	// Strict surfaces the first record-level error to the caller.
	Strict Mode = iota

	// Lenient skips records with out-of-range fields, reports them through
	// the monitoring logger, and keeps going.
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// Reader streams the data records of a granule lazily, one record
// materialized at a time, in file order. It is restartable via Reset. The
// zero value is not usable; construct with NewReader.
//
// Structural errors (short reads against a validated header) abort the
// stream; field range errors are scoped to one record and handled per the
// Mode.
type Reader struct {
	src     io.ReadSeeker
	header  *Header
	mode    Mode
	buf     []byte
	words   []int32
	next    int // index of the next data record to decode
	skipped int
}

// NewReader returns a Reader positioned before the first data record.
// The header must come from ReadHeader over the same bytes src reads.
func NewReader(src io.ReadSeeker, header *Header, mode Mode) *Reader {
	return &Reader{
		src:    src,
		header: header,
		mode:   mode,
		buf:    make([]byte, header.BytesPerRecord),
		words:  make([]int32, header.Variant.Words()),
	}
}

// Header returns the header the Reader was built with.
func (r *Reader) Header() *Header { return r.header }

// Skipped returns how many records Lenient mode has skipped since the last
// Reset.
func (r *Reader) Skipped() int { return r.skipped }

// Reset seeks back to the first data record and clears the skip counter.
func (r *Reader) Reset() error {
	if _, err := r.src.Seek(int64(r.header.BytesPerRecord), io.SeekStart); err != nil {
		return fmt.Errorf("qfit: reset: %w", err)
	}
	r.next = 0
	r.skipped = 0
	return nil
}

// Next decodes and returns the next record. It returns io.EOF once all
// RecordCount records have been consumed. In Strict mode a record with an
// out-of-range field is returned as a *FieldRangeError (the stream remains
// usable; calling Next again moves past the bad record). In Lenient mode
// such records are skipped and logged.
func (r *Reader) Next() (*Record, error) {
	for {
		if r.next >= r.header.RecordCount {
			return nil, io.EOF
		}
		if r.next == 0 {
			// First read after construction or Reset: position past the
			// header record.
			if _, err := r.src.Seek(int64(r.header.BytesPerRecord), io.SeekStart); err != nil {
				return nil, fmt.Errorf("qfit: seek past header: %w", err)
			}
		}

		index := r.next
		if _, err := io.ReadFull(r.src, r.buf); err != nil {
			// The header validated the record grid, so a short read means
			// the source changed underneath us.
			return nil, fmt.Errorf("qfit: record %d: %w", index, err)
		}
		r.next++

		for i := range r.words {
			r.words[i] = int32(r.header.Order.Uint32(r.buf[i*WordSize : (i+1)*WordSize]))
		}

		rec, err := decodeWords(r.words, r.header.Variant, index)
		if err != nil {
			if r.mode == Lenient && errors.Is(err, ErrFieldOutOfRange) {
				r.skipped++
				monitoring.Warnf("qfit: skipping record: %v", err)
				continue
			}
			return nil, err
		}
		return rec, nil
	}
}

// ReadAll consumes the remaining records into a slice. In Strict mode it
// stops at the first bad record; in Lenient mode it returns every record
// that decodes cleanly.
func (r *Reader) ReadAll() ([]Record, error) {
	out := make([]Record, 0, r.header.RecordCount-r.next)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, *rec)
	}
}
