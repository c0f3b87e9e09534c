package nmea

import (
	"fmt"
	"strconv"
	"time"
)

// FixQuality is the GGA fix quality digit.
type FixQuality int

const (
	QualityNoFix FixQuality = 0
	QualityGPS   FixQuality = 1
	QualityDGPS  FixQuality = 2
)

func (q FixQuality) String() string {
	switch q {
	case QualityNoFix:
		return "no-fix"
	case QualityGPS:
		return "gps"
	case QualityDGPS:
		return "dgps"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// TimeOfDay is the UTC hhmmss.ss field of a sentence.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// Resolve combines the time-of-day with the date of ref into a full UTC
// timestamp. The GGA sentence carries no date, so the current date is
// assumed from the system clock.
func (t TimeOfDay) Resolve(ref time.Time) time.Time {
	ref = ref.UTC()
	return time.Date(ref.Year(), ref.Month(), ref.Day(),
		t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC)
}

func parseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) < 6 {
		return TimeOfDay{}, fmt.Errorf("time field too short: %q", s)
	}
	h, err1 := strconv.Atoi(s[0:2])
	m, err2 := strconv.Atoi(s[2:4])
	sec, err3 := strconv.ParseFloat(s[4:], 64)
	if err1 != nil || err2 != nil || err3 != nil ||
		h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec >= 61 {
		return TimeOfDay{}, fmt.Errorf("bad time field: %q", s)
	}
	whole := int(sec)
	return TimeOfDay{
		Hour:       h,
		Minute:     m,
		Second:     whole,
		Nanosecond: int((sec - float64(whole)) * 1e9),
	}, nil
}

// GGA is the essential fix data sentence: position, altitude, fix quality.
// Latitude/Longitude/HDOP/Altitude are nil when the receiver has no fix.
type GGA struct {
	Talker     string
	Time       TimeOfDay
	Latitude   *float64 // signed decimal degrees
	Longitude  *float64 // signed decimal degrees
	Quality    FixQuality
	Satellites int
	HDOP       *float64
	Altitude   *float64
	AltUnit    string
}

func (GGA) sentence() {}

// HasFix reports whether the sentence carries a usable position.
func (g GGA) HasFix() bool {
	return g.Quality != QualityNoFix && g.Latitude != nil && g.Longitude != nil
}

// GGA payload layout:
//
//	0: talker+type     5: E/W              10: altitude unit (M)
//	1: UTC hhmmss.ss   6: fix quality      11: geoid separation
//	2: lat ddmm.mmmm   7: satellite count  12: separation unit
//	3: N/S             8: HDOP             13: DGPS age
//	4: lon dddmm.mmmm  9: altitude         14: DGPS station
func parseGGA(raw, talker string, f []string) Sentence {
	if len(f) < 11 {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}

	g := GGA{Talker: talker, AltUnit: f[10]}

	if f[1] != "" {
		tod, err := parseTimeOfDay(f[1])
		if err != nil {
			return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
		}
		g.Time = tod
	}

	if f[6] != "" {
		q, err := strconv.Atoi(f[6])
		if err != nil || q < 0 {
			return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
		}
		g.Quality = FixQuality(q)
	}

	if f[7] != "" {
		sats, err := strconv.Atoi(f[7])
		if err != nil || sats < 0 {
			return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
		}
		g.Satellites = sats
	}

	var err error
	if g.HDOP, err = optFloat(f[8]); err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}
	if g.Altitude, err = optFloat(f[9]); err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}

	// Empty coordinates are a valid "receiver live but no fix" state, even
	// when the quality digit claims otherwise. Malformed non-empty
	// coordinates are a decode failure.
	if f[2] == "" || f[4] == "" {
		g.Quality = QualityNoFix
		g.Latitude, g.Longitude = nil, nil
		return g
	}

	lat, err := ParseLatitude(f[2], f[3])
	if err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}
	lon, err := ParseLongitude(f[4], f[5])
	if err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}
	g.Latitude, g.Longitude = &lat, &lon
	return g
}
