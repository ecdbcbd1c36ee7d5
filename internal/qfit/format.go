package qfit

import (
	"encoding/binary"
	"fmt"
)

// WordSize is the size of the format's basic addressable unit: one 32-bit
// big- or little-endian integer.
const WordSize = 4

// Variant identifies one of the three historical QFIT record layouts. The
// variant is selected once by DetectFormat and threaded through header and
// record decoding; it is never re-detected per record.
type Variant int

const (
	// TenWord is the original layout: shot measurements plus a packed
	// GPS time-of-day word.
	TenWord Variant = iota

	// ElevenWord is the TenWord layout plus one trailing relative
	// time-of-day word. Its field table is inferred from the historical C
	// reader rather than a formal specification.
	ElevenWord

	// FourteenWord extends the common layout with the passive channel:
	// passive signal strength and the passive footprint position.
	FourteenWord
)

// Words returns the record length in 32-bit words.
func (v Variant) Words() int {
	switch v {
	case TenWord:
		return 10
	case ElevenWord:
		return 11
	case FourteenWord:
		return 14
	}
	return 0
}

// BytesPerRecord returns the record length in bytes.
func (v Variant) BytesPerRecord() int { return v.Words() * WordSize }

func (v Variant) String() string {
	switch v {
	case TenWord:
		return "10-word"
	case ElevenWord:
		return "11-word"
	case FourteenWord:
		return "14-word"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// variantForWords maps a candidate word count to its variant.
func variantForWords(n int) (Variant, bool) {
	switch n {
	case 10:
		return TenWord, true
	case 11:
		return ElevenWord, true
	case 14:
		return FourteenWord, true
	}
	return 0, false
}

// Field describes one word of a record layout: the output name, the fixed
// rational constant dividing the raw integer, and how the decoded value is
// interpreted. The tables below are part of the external contract of the
// format; changing a scale changes decoded output for every archival file.
type Field struct {
	Name      string
	Scale     float64 // raw word / Scale = physical value
	Integer   bool    // unscaled count, kept as an integer
	TimeOfDay bool    // decoded value is seconds within a UTC day, range-checked
}

// Common words 0-8, shared by every variant.
var commonFields = []Field{
	{Name: "rel_time", Scale: 1e3, TimeOfDay: true}, // ms -> s since start of data file
	{Name: "latitude", Scale: 1e6},                  // microdegrees -> degrees
	{Name: "longitude", Scale: 1e6},
	{Name: "elevation", Scale: 1e3}, // mm -> m above WGS84 ellipsoid
	{Name: "xmt_sigstr", Scale: 1, Integer: true},
	{Name: "rcv_sigstr", Scale: 1, Integer: true},
	{Name: "azimuth", Scale: 1e3}, // millidegrees -> degrees
	{Name: "pitch", Scale: 1e3},
	{Name: "roll", Scale: 1e3},
}

var gpsTimeField = Field{Name: "time_hhmmss", Scale: 1e3} // packed hhmmss.sss

var (
	tenWordFields = append(append([]Field{}, commonFields...), gpsTimeField)

	elevenWordFields = append(append([]Field{}, tenWordFields...),
		Field{Name: "time_of_day", Scale: 1e3, TimeOfDay: true})

	fourteenWordFields = append(append([]Field{}, commonFields...),
		Field{Name: "passive_sig", Scale: 1, Integer: true},
		Field{Name: "pass_foot_lat", Scale: 1e6},
		Field{Name: "pass_foot_long", Scale: 1e6},
		Field{Name: "pass_foot_synth_elev", Scale: 1e3},
		gpsTimeField,
	)
)

// Layout returns the per-word field table of the variant.
func (v Variant) Layout() []Field {
	switch v {
	case TenWord:
		return tenWordFields
	case ElevenWord:
		return elevenWordFields
	case FourteenWord:
		return fourteenWordFields
	}
	return nil
}

// Format is the outcome of format detection: the record layout and the byte
// order, uniform across the whole file.
type Format struct {
	Variant Variant
	Order   binary.ByteOrder
}

func (f Format) String() string {
	return fmt.Sprintf("%s %s", f.Variant, orderName(f.Order))
}

// OrderName returns the byte order as "big-endian" or "little-endian".
func (f Format) OrderName() string { return orderName(f.Order) }

func orderName(o binary.ByteOrder) string {
	if o == binary.LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// DetectFormat determines the record length and byte order from the leading
// word of a granule, which holds the byte length of one record. The word is
// tried big-endian first, then little-endian; the file is unsupported when
// neither interpretation yields a known record length. Pure function: no
// seeking, no side effects.
func DetectFormat(b []byte) (Format, error) {
	if len(b) < WordSize {
		return Format{}, fmt.Errorf("%w: %d bytes, need at least one word", ErrTruncatedFile, len(b))
	}

	big := int32(binary.BigEndian.Uint32(b[:WordSize]))
	if v, ok := variantForWords(int(big) / WordSize); ok && big%WordSize == 0 {
		return Format{Variant: v, Order: binary.BigEndian}, nil
	}

	little := int32(binary.LittleEndian.Uint32(b[:WordSize]))
	if v, ok := variantForWords(int(little) / WordSize); ok && little%WordSize == 0 {
		return Format{Variant: v, Order: binary.LittleEndian}, nil
	}

	return Format{}, fmt.Errorf("%w: leading word %d (big-endian) / %d (little-endian) matches no known record length",
		ErrUnsupportedFormat, big, little)
}
