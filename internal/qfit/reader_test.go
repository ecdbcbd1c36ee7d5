package qfit

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(t *testing.T, b []byte, mode Mode) *Reader {
	t.Helper()
	f, err := DetectFormat(b)
	require.NoError(t, err)
	h, err := ReadHeader(b, f)
	require.NoError(t, err)
	return NewReader(bytes.NewReader(b), h, mode)
}

func TestReaderDecodesTenWord(t *testing.T) {
	t.Parallel()

	b := buildGranule(t, TenWord, binary.BigEndian, "", [][]int32{tenWordRecord(1234567)})
	r := newTestReader(t, b, Strict)

	rec, err := r.Next()
	require.NoError(t, err)

	want := &Record{
		Variant:        TenWord,
		RelTime:        1234.567,
		Latitude:       69.123456,
		Longitude:      -105.987654,
		Elevation:      1500.123,
		StartPulse:     1000,
		ReflectedPulse: 2000,
		Azimuth:        359.999,
		Pitch:          -1.5,
		Roll:           0.25,
		GPSTime:        153320.1,
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderDecodesFourteenWordPassiveChannel(t *testing.T) {
	t.Parallel()

	raw := []int32{
		60000, 70250000, -45500000, 2250500, 800, 1600, 180000, 2000, -3000,
		321, 70249100, -45500900, 2249000, 120000500,
	}
	b := buildGranule(t, FourteenWord, binary.LittleEndian, "", [][]int32{raw})
	r := newTestReader(t, b, Strict)

	rec, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, FourteenWord, rec.Variant)
	assert.Equal(t, 60.0, rec.RelTime)
	assert.Equal(t, int32(321), rec.PassiveSignal)
	assert.InDelta(t, 70.2491, rec.PassiveLatitude, 1e-9)
	assert.InDelta(t, -45.5009, rec.PassiveLongitude, 1e-9)
	assert.InDelta(t, 2249.0, rec.PassiveElevation, 1e-9)
	assert.InDelta(t, 120000.5, rec.GPSTime, 1e-9)

	// The ten-word-only field stays untouched, identified by the Variant.
	assert.Zero(t, rec.TimeOfDay)
}

func TestReaderDecodesElevenWordTimeOfDay(t *testing.T) {
	t.Parallel()

	raw := append(tenWordRecord(9000), 55932100) // 15:32:12.1 UTC as seconds
	b := buildGranule(t, ElevenWord, binary.BigEndian, "", [][]int32{raw})
	r := newTestReader(t, b, Strict)

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, ElevenWord, rec.Variant)
	assert.InDelta(t, 55932.1, rec.TimeOfDay, 1e-9)
}

func TestReaderStrictFieldRange(t *testing.T) {
	t.Parallel()

	bad := tenWordRecord(-5) // negative raw time word
	b := buildGranule(t, TenWord, binary.BigEndian, "", [][]int32{
		tenWordRecord(1000),
		bad,
		tenWordRecord(3000),
	})
	r := newTestReader(t, b, Strict)

	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldOutOfRange)
	var fre *FieldRangeError
	require.ErrorAs(t, err, &fre)
	assert.Equal(t, 1, fre.Index)
	assert.Equal(t, "rel_time", fre.Field)

	// The stream stays usable past the bad record.
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 3.0, rec.RelTime)
}

func TestReaderLenientSkips(t *testing.T) {
	t.Parallel()

	overDay := append(tenWordRecord(4000), 90_000_000) // 90000 s > 86400
	b := buildGranule(t, ElevenWord, binary.BigEndian, "", [][]int32{
		append(tenWordRecord(1000), 100),
		overDay,
		append(tenWordRecord(3000), 300),
	})
	r := newTestReader(t, b, Lenient)

	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1.0, recs[0].RelTime)
	assert.Equal(t, 3.0, recs[1].RelTime)
	assert.Equal(t, 1, r.Skipped())
}

func TestReaderReset(t *testing.T) {
	t.Parallel()

	b := buildGranule(t, TenWord, binary.BigEndian, "", [][]int32{
		tenWordRecord(1000),
		tenWordRecord(2000),
	})
	r := newTestReader(t, b, Strict)

	first, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, first, 2)

	require.NoError(t, r.Reset())
	second, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecordEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	cases := map[Variant][]int32{
		TenWord:      tenWordRecord(1234567),
		ElevenWord:   append(tenWordRecord(86_400_000), 86_400_000), // exactly one day is in range
		FourteenWord: {60000, 70250000, -45500000, 2250500, 800, 1600, 180000, 2000, -3000, 321, 70249100, -45500900, 2249000, 120000500},
	}
	for v, raw := range cases {
		t.Run(v.String(), func(t *testing.T) {
			rec, err := decodeWords(raw, v, 0)
			require.NoError(t, err)
			assert.Equal(t, raw, rec.Encode())
		})
	}
}

func TestUnpackGPSTime(t *testing.T) {
	t.Parallel()

	h, m, s := UnpackGPSTime(153320.1)
	assert.Equal(t, 15, h)
	assert.Equal(t, 33, m)
	assert.InDelta(t, 20.1, s, 1e-6)

	h, m, s = UnpackGPSTime(1.25) // 00:00:01.25
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)
	assert.InDelta(t, 1.25, s, 1e-9)
}

func TestReaderEmptyGranule(t *testing.T) {
	t.Parallel()

	b := buildGranule(t, TenWord, binary.BigEndian, "", nil)
	r := newTestReader(t, b, Strict)
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}
