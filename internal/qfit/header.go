package qfit

import (
	"fmt"
	"strings"
)

// Header describes a granule's layout, derived from the detected format, the
// header record, and the file size. Immutable once built.
type Header struct {
	Format

	BytesPerRecord int
	RecordCount    int // data records; the header occupies one record slot

	// Text is the provenance/instrument text stored in the bytes of the
	// header record after the record-length word, NUL padding stripped.
	Text string

	// FirstSeconds and LastSeconds are the decoded relative-time fields of
	// the first and last data record. Zero when the file has no data
	// records.
	FirstSeconds float64
	LastSeconds  float64
}

// ReadHeader decodes the header record and sizes the file. The whole buffer
// is passed so the record grid can be validated: a size that is not a whole
// number of records fails with ErrTruncatedFile, since a partial trailing
// record means the grid cannot be trusted.
func ReadHeader(b []byte, f Format) (*Header, error) {
	bpr := f.Variant.BytesPerRecord()
	if len(b) < bpr {
		return nil, fmt.Errorf("%w: %d bytes, header record needs %d", ErrTruncatedFile, len(b), bpr)
	}
	if rem := (len(b) - bpr) % bpr; rem != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte records (%d spare)",
			ErrTruncatedFile, len(b), bpr, rem)
	}

	declared := int(int32(f.Order.Uint32(b[:WordSize])))
	if declared != bpr {
		return nil, fmt.Errorf("%w: header declares %d bytes per record, format is %s",
			ErrUnsupportedFormat, declared, f)
	}

	h := &Header{
		Format:         f,
		BytesPerRecord: bpr,
		RecordCount:    len(b)/bpr - 1,
		Text:           headerText(b[WordSize:bpr]),
	}

	if h.RecordCount > 0 {
		timeScale := f.Variant.Layout()[0].Scale
		first := int32(f.Order.Uint32(b[bpr : bpr+WordSize]))
		last := int32(f.Order.Uint32(b[h.RecordCount*bpr : h.RecordCount*bpr+WordSize]))
		h.FirstSeconds = float64(first) / timeScale
		h.LastSeconds = float64(last) / timeScale
	}
	return h, nil
}

// headerText strips NUL padding and surrounding whitespace from the header
// record's text bytes.
func headerText(b []byte) string {
	return strings.TrimSpace(strings.ReplaceAll(string(b), "\x00", ""))
}
