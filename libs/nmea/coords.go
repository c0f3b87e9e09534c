package nmea

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IsValidLatitude reports whether lat is inside [-90, 90].
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude reports whether lon is inside [-180, 180].
func IsValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// KnotsToKmh converts a speed over ground from knots to km/h.
func KnotsToKmh(knots float64) float64 {
	return knots * 1.852
}

// DecimalDegreesToDMS splits a decimal-degree coordinate into degrees,
// minutes and seconds. The sign is carried on the degrees component.
func DecimalDegreesToDMS(dd float64) (deg int, min int, sec float64) {
	neg := dd < 0
	abs := math.Abs(dd)
	deg = int(abs)
	rem := (abs - float64(deg)) * 60
	min = int(rem)
	sec = (rem - float64(min)) * 60
	if neg {
		deg = -deg
	}
	return deg, min, sec
}

// parseDDM converts the NMEA "[d]ddmm.mmmm" coordinate format into decimal
// degrees. The minutes always occupy the last two digits before the dot;
// everything in front of them is whole degrees.
func parseDDM(s string) (float64, error) {
	dot := strings.IndexByte(s, '.')
	if dot == -1 {
		dot = len(s)
	}
	if dot < 3 {
		return 0, fmt.Errorf("coordinate too short: %q", s)
	}
	deg, err := strconv.ParseFloat(s[:dot-2], 64)
	if err != nil {
		return 0, fmt.Errorf("bad degrees in %q: %v", s, err)
	}
	min, err := strconv.ParseFloat(s[dot-2:], 64)
	if err != nil || min >= 60 {
		return 0, fmt.Errorf("bad minutes in %q", s)
	}
	return deg + min/60, nil
}

// ParseLatitude decodes a ddmm.mmmm latitude with its N/S hemisphere into
// signed decimal degrees.
func ParseLatitude(value, hemisphere string) (float64, error) {
	lat, err := parseDDM(value)
	if err != nil {
		return 0, err
	}
	switch hemisphere {
	case "N":
	case "S":
		lat = -lat
	default:
		return 0, fmt.Errorf("bad latitude hemisphere: %q", hemisphere)
	}
	if !IsValidLatitude(lat) {
		return 0, fmt.Errorf("latitude out of range: %f", lat)
	}
	return lat, nil
}

// ParseLongitude decodes a dddmm.mmmm longitude with its E/W hemisphere
// into signed decimal degrees.
func ParseLongitude(value, hemisphere string) (float64, error) {
	lon, err := parseDDM(value)
	if err != nil {
		return 0, err
	}
	switch hemisphere {
	case "E":
	case "W":
		lon = -lon
	default:
		return 0, fmt.Errorf("bad longitude hemisphere: %q", hemisphere)
	}
	if !IsValidLongitude(lon) {
		return 0, fmt.Errorf("longitude out of range: %f", lon)
	}
	return lon, nil
}
