package gpstime

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrMalformedLeapFile reports a leap-seconds.list with no usable
	// entries (or entries out of order).
	ErrMalformedLeapFile = errors.New("gpstime: malformed leap-seconds file")

	// ErrTableUnavailable reports that no leap-second table could be
	// obtained. Conversions fail with this error instead of silently
	// assuming zero leap seconds, which would corrupt every absolute
	// timestamp before 2000.
	ErrTableUnavailable = errors.New("gpstime: leap-second table unavailable")
)

const (
	// taiMinusGPS is the constant offset between the TAI and GPS time
	// scales (TAI leads GPS by 19 s).
	taiMinusGPS = 19

	// ntpSecondsAtGPSEpoch is the NTP timestamp (seconds since
	// 1900-01-01T00:00:00) of the GPS epoch 1980-01-06T00:00:00.
	ntpSecondsAtGPSEpoch = 2524953600
)

var ntpEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one leap-second insertion: the GPS instant it took effect and the
// cumulative GPS−UTC offset from that instant on.
type Entry struct {
	GPSSeconds float64
	Cumulative int
}

// Table is an immutable, ordered leap-second table. Entries are strictly
// increasing in GPSSeconds and non-decreasing in Cumulative by construction;
// Parse rejects input that violates either.
type Table struct {
	entries []Entry

	// Expires is the advertised expiry of the source file (the "#@" line),
	// zero if the file carried none. The core never refreshes the file
	// itself; callers may warn when Expired.
	Expires time.Time
}

// Parse reads a leap-seconds.list style table: comment lines start with '#',
// data lines hold an NTP timestamp (seconds since 1900) and the TAI−UTC
// offset in effect from that instant. Entries are rebased to GPS seconds and
// entries before the GPS epoch are dropped.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{}
	var lastNTP int64
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if strings.HasPrefix(line, "#@") {
				if fields := strings.Fields(line[2:]); len(fields) > 0 {
					if secs, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
						t.Expires = ntpEpoch.Add(time.Duration(secs) * time.Second)
					}
				}
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: bad line %q", ErrMalformedLeapFile, line)
		}
		ntp, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q", ErrMalformedLeapFile, fields[0])
		}
		tai, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: bad offset %q", ErrMalformedLeapFile, fields[1])
		}
		if ntp <= lastNTP {
			return nil, fmt.Errorf("%w: entries out of order at %d", ErrMalformedLeapFile, ntp)
		}
		lastNTP = ntp

		cumulative := tai - taiMinusGPS
		if n := len(t.entries); n > 0 && cumulative < t.entries[n-1].Cumulative {
			return nil, fmt.Errorf("%w: cumulative count decreases at %d", ErrMalformedLeapFile, ntp)
		}

		// The file tags each offset with the UTC instant after the
		// insertion; back off one second to the instant the leap second
		// occurred, then rebase from the NTP epoch to the GPS epoch.
		gps := float64(ntp-ntpSecondsAtGPSEpoch) + float64(cumulative) - 1
		if gps < 0 {
			continue // pre-GPS-era entry
		}
		t.entries = append(t.entries, Entry{GPSSeconds: gps, Cumulative: cumulative})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading leap-seconds file: %w", err)
	}
	if len(t.entries) == 0 {
		return nil, fmt.Errorf("%w: no entries found", ErrMalformedLeapFile)
	}
	return t, nil
}

// Load parses the leap-seconds file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening leap-seconds file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Len returns the number of table entries.
func (t *Table) Len() int { return len(t.entries) }

// Expired reports whether the source file's advertised expiry has passed.
// It is always false for tables without an expiry line.
func (t *Table) Expired(now time.Time) bool {
	return !t.Expires.IsZero() && now.After(t.Expires)
}

// LeapSecondsAt returns the cumulative GPS−UTC leap-second count at the
// given GPS instant: the count of the greatest entry not after gps, or 0 for
// instants before the first entry.
func (t *Table) LeapSecondsAt(gps float64) int {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].GPSSeconds > gps
	})
	if i == 0 {
		return 0
	}
	return t.entries[i-1].Cumulative
}

// UTCFromGPS converts seconds since the GPS epoch to UTC seconds since the
// same epoch by subtracting the leap seconds inserted up to that instant.
func (t *Table) UTCFromGPS(gps float64) float64 {
	return gps - float64(t.LeapSecondsAt(gps))
}

// bundledLeapList is a snapshot of the NIST/IERS leap-seconds.list shipped
// with the binary, mirroring the embedded sensor calibration approach used
// elsewhere in this codebase. External refresh of the file is out of scope;
// SetDefault installs a newer table when one exists.
//
//go:embed leap-seconds.list
var bundledLeapList []byte

var (
	defaultMu     sync.Mutex
	defaultTable  *Table
	defaultErr    error
	defaultLoaded bool
)

// Default returns the process-wide leap-second table, lazily parsed from the
// bundled leap-seconds.list on first use. It fails with ErrTableUnavailable
// when neither an injected table nor the bundled snapshot can serve.
func Default() (*Table, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultTable == nil && !defaultLoaded {
		defaultLoaded = true
		t, err := Parse(bytes.NewReader(bundledLeapList))
		if err != nil {
			defaultErr = fmt.Errorf("%w: %v", ErrTableUnavailable, err)
		} else {
			defaultTable = t
		}
	}
	if defaultTable == nil {
		if defaultErr != nil {
			return nil, defaultErr
		}
		return nil, ErrTableUnavailable
	}
	return defaultTable, nil
}

// SetDefault replaces the process-wide table. Passing nil clears it, after
// which Default falls back to the bundled snapshot again. Refreshing is
// expected to happen from one goroutine; readers always see a complete table.
func SetDefault(t *Table) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultTable = t
	defaultErr = nil
	defaultLoaded = t != nil
}

// LeapSecondsAt is Table.LeapSecondsAt against the process-wide table.
func LeapSecondsAt(gps float64) (int, error) {
	t, err := Default()
	if err != nil {
		return 0, err
	}
	return t.LeapSecondsAt(gps), nil
}

// UTCFromGPS is Table.UTCFromGPS against the process-wide table.
func UTCFromGPS(gps float64) (float64, error) {
	t, err := Default()
	if err != nil {
		return 0, err
	}
	return t.UTCFromGPS(gps), nil
}
