package qfit

import (
	"fmt"
	"math"
)

// Record is one decoded laser shot. Which fields carry data depends on the
// variant that produced the record: the Variant tag is always set, so a
// zero-valued optional field can be told apart from an absent one.
type Record struct {
	Variant Variant

	// Common to every variant.
	RelTime        float64 // seconds since start of data file
	Latitude       float64 // degrees, laser spot
	Longitude      float64 // degrees, laser spot
	Elevation      float64 // metres above the WGS84 ellipsoid
	StartPulse     int32   // start pulse signal strength (relative)
	ReflectedPulse int32   // reflected laser signal strength (relative)
	Azimuth        float64 // scan azimuth, degrees
	Pitch          float64 // degrees
	Roll           float64 // degrees
	GPSTime        float64 // packed hhmmss.sss GPS time of day

	// ElevenWord only.
	TimeOfDay float64 // seconds since UTC midnight

	// FourteenWord only: the passive channel.
	PassiveSignal    int32   // passive signal strength (relative)
	PassiveLatitude  float64 // degrees, passive footprint
	PassiveLongitude float64 // degrees, passive footprint
	PassiveElevation float64 // metres, synthesized passive footprint elevation
}

// decodeWords scales raw words into a Record per the variant's field table.
// index is the zero-based data record index, used for error reporting only.
func decodeWords(words []int32, v Variant, index int) (*Record, error) {
	layout := v.Layout()
	if len(words) != len(layout) {
		return nil, fmt.Errorf("qfit: record %d: got %d words, layout has %d", index, len(words), len(layout))
	}

	rec := &Record{Variant: v}
	for i, f := range layout {
		raw := words[i]
		value := float64(raw) / f.Scale
		if f.TimeOfDay && (raw < 0 || value > 86400) {
			return nil, &FieldRangeError{Index: index, Field: f.Name, Value: value}
		}
		if err := rec.setField(f.Name, raw, value); err != nil {
			return nil, fmt.Errorf("qfit: record %d: %w", index, err)
		}
	}
	return rec, nil
}

func (r *Record) setField(name string, raw int32, value float64) error {
	switch name {
	case "rel_time":
		r.RelTime = value
	case "latitude":
		r.Latitude = value
	case "longitude":
		r.Longitude = value
	case "elevation":
		r.Elevation = value
	case "xmt_sigstr":
		r.StartPulse = raw
	case "rcv_sigstr":
		r.ReflectedPulse = raw
	case "azimuth":
		r.Azimuth = value
	case "pitch":
		r.Pitch = value
	case "roll":
		r.Roll = value
	case "time_hhmmss":
		r.GPSTime = value
	case "time_of_day":
		r.TimeOfDay = value
	case "passive_sig":
		r.PassiveSignal = raw
	case "pass_foot_lat":
		r.PassiveLatitude = value
	case "pass_foot_long":
		r.PassiveLongitude = value
	case "pass_foot_synth_elev":
		r.PassiveElevation = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

func (r *Record) fieldValue(name string) (raw int32, value float64, integer bool) {
	switch name {
	case "rel_time":
		return 0, r.RelTime, false
	case "latitude":
		return 0, r.Latitude, false
	case "longitude":
		return 0, r.Longitude, false
	case "elevation":
		return 0, r.Elevation, false
	case "xmt_sigstr":
		return r.StartPulse, 0, true
	case "rcv_sigstr":
		return r.ReflectedPulse, 0, true
	case "azimuth":
		return 0, r.Azimuth, false
	case "pitch":
		return 0, r.Pitch, false
	case "roll":
		return 0, r.Roll, false
	case "time_hhmmss":
		return 0, r.GPSTime, false
	case "time_of_day":
		return 0, r.TimeOfDay, false
	case "passive_sig":
		return r.PassiveSignal, 0, true
	case "pass_foot_lat":
		return 0, r.PassiveLatitude, false
	case "pass_foot_long":
		return 0, r.PassiveLongitude, false
	case "pass_foot_synth_elev":
		return 0, r.PassiveElevation, false
	}
	return 0, 0, false
}

// Encode re-applies the variant's scale constants, recovering the raw words
// the record was decoded from. The scales are exact rational constants, so
// decode followed by Encode round-trips bit-exactly for in-range values.
func (r *Record) Encode() []int32 {
	layout := r.Variant.Layout()
	words := make([]int32, len(layout))
	for i, f := range layout {
		raw, value, integer := r.fieldValue(f.Name)
		if integer {
			words[i] = raw
			continue
		}
		words[i] = int32(math.Round(value * f.Scale))
	}
	return words
}

// UnpackGPSTime splits a packed hhmmss.sss GPS time-of-day value into hours,
// minutes and (fractional) seconds. Example: 153320.1 is 15h 33m 20.1s.
func UnpackGPSTime(v float64) (hour, minute int, second float64) {
	hour = int(v / 10000)
	minute = int(v/100) % 100
	second = v - float64(hour)*10000 - float64(minute)*100
	return hour, minute, second
}
