package qfit

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// GranuleDate is the nominal calendar date of a survey granule, recovered
// from its file name. The binary records only carry time of day; this date
// anchors them to an absolute day.
type GranuleDate struct {
	Year  int
	Month int
	Day   int
}

func (d GranuleDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Granule file names: mission prefix, then the survey date, e.g.
// ILATM1B_20090331_<suffix>.qi or BLATM1B_930623_<suffix>.qi.
var granuleName = regexp.MustCompile(`^(BLATM1B|ILATM1B|ILNSA1B)_((\d{4})|(\d{2}))(\d{2})(\d{2}).*\.qi$`)

// ParseGranuleDate extracts the nominal survey date from an ATM granule file
// name (directories are ignored). Early mission names carry two-digit years:
// 90-99 map to the 1990s, anything lower to the 2000s.
func ParseGranuleDate(name string) (GranuleDate, error) {
	m := granuleName.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return GranuleDate{}, fmt.Errorf("qfit: file name %q carries no granule date", filepath.Base(name))
	}

	year, _ := strconv.Atoi(m[2])
	if m[4] != "" { // two-digit year
		if year >= 90 {
			year += 1900
		} else {
			year += 2000
		}
	}
	month, _ := strconv.Atoi(m[5])
	day, _ := strconv.Atoi(m[6])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return GranuleDate{}, fmt.Errorf("qfit: file name %q has implausible date %02d-%02d", filepath.Base(name), month, day)
	}
	return GranuleDate{Year: year, Month: month, Day: day}, nil
}
