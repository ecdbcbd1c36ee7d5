// Package gpstime converts between calendar dates, Julian day counts, and
// GPS/UTC time scales for the ATM survey era (1993 onward).
//
// The calendar arithmetic is the Van Flandern integer-style formula over the
// proleptic Gregorian calendar, which is exact for the supported date range.
// GPS-to-UTC conversion subtracts cumulative leap seconds from an ordered
// table parsed out of an IERS/NIST leap-seconds.list file; a bundled snapshot
// of that file is embedded so conversions work without any auxiliary data on
// disk.
package gpstime

import "math"

// Epoch offsets between the day-count scales.
const (
	// JDOfMJDEpoch is the Julian day of the Modified Julian Day epoch,
	// 1858-11-17T00:00:00.
	JDOfMJDEpoch = 2400000.5

	// JDOfJ2000 is the Julian day of the J2000 epoch, 2000-01-01T12:00:00.
	JDOfJ2000 = 2451545.0
)

// GPSEpoch is the origin of the GPS time scale, 1980-01-06T00:00:00.
var GPSEpoch = Date{Year: 1980, Month: 1, Day: 6}

// Date is a proleptic Gregorian calendar instant. Second may carry a
// fractional part.
type Date struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

// dayFraction returns the time of day as a fraction of one day.
func (d Date) dayFraction() float64 {
	return float64(d.Hour)/24.0 + float64(d.Minute)/1440.0 + d.Second/86400.0
}

// JD returns the Julian day of d.
//
// The integer part of the formula handles month/day rollover and the
// Gregorian leap-year rule (divisible by 4, not by 100 unless by 400)
// without any per-month table.
func JD(d Date) float64 {
	y := float64(d.Year)
	m := float64(d.Month)

	jdn := 367.0*y -
		math.Floor(7.0*(y+math.Floor((m+9.0)/12.0))/4.0) -
		math.Floor(3.0*(math.Floor((y+(m-9.0)/7.0)/100.0)+1.0)/4.0) +
		math.Floor(275.0*m/9.0) +
		float64(d.Day) + 1721028.5
	return jdn + d.dayFraction()
}

// MJD returns the Modified Julian Day of d (days since 1858-11-17T00:00:00).
func MJD(d Date) float64 {
	return JD(d) - JDOfMJDEpoch
}

// DaysSince returns the continuous day count from epoch to d. It is the
// configurable-epoch form of MJD: DaysSince(d, Date{1858, 11, 17, ...})
// equals MJD(d).
func DaysSince(d, epoch Date) float64 {
	return JD(d) - JD(epoch)
}

// GPSSeconds returns the count of seconds from the GPS epoch to d. The
// result is negative for dates before 1980-01-06.
func GPSSeconds(d Date) float64 {
	return DaysSince(d, GPSEpoch) * 86400.0
}

// J2000Seconds returns seconds since 2000-01-01T12:00:00, the time base the
// NSIDC archive tooling emits.
func J2000Seconds(d Date) float64 {
	return (JD(d) - JDOfJ2000) * 86400.0
}

// DateOfJD inverts JD. The result is exact to the fractional-day precision
// of the float64 day count; seconds are rounded to the microsecond to absorb
// representation error.
func DateOfJD(jd float64) Date {
	z := math.Floor(jd + 0.5)
	f := jd + 0.5 - z

	// Gregorian correction, applied unconditionally to mirror the proleptic
	// forward formula.
	alpha := math.Floor((z - 1867216.25) / 36524.25)
	a := z + 1 + alpha - math.Floor(alpha/4.0)

	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	dd := math.Floor(365.25 * c)
	e := math.Floor((b - dd) / 30.6001)

	day := b - dd - math.Floor(30.6001*e)

	month := int(e) - 1
	if month > 12 {
		month -= 12
	}
	year := int(c) - 4716
	if month <= 2 {
		year++
	}

	secs := math.Round(f*86400.0*1e6) / 1e6
	if secs >= 86400.0 {
		// Fraction rounded up to a full day; carry into the next midnight.
		return DateOfJD(z + 0.5)
	}
	hour := int(secs / 3600.0)
	secs -= float64(hour) * 3600.0
	minute := int(secs / 60.0)
	secs -= float64(minute) * 60.0

	return Date{
		Year:   year,
		Month:  month,
		Day:    int(day),
		Hour:   hour,
		Minute: minute,
		Second: secs,
	}
}

// DateOfMJD inverts MJD.
func DateOfMJD(mjd float64) Date {
	return DateOfJD(mjd + JDOfMJDEpoch)
}
