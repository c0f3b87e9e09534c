package fix

import (
	"encoding/json"
	"time"

	"github.com/pravinkori/gps-data-parser/libs/nmea"
)

// Fix is the unit of persistence: one correlated position/velocity reading.
// Pointer fields are nil when the receiver reported no value, which is a
// normal state before the first fix. A Fix is never mutated after the
// correlator hands it off.
type Fix struct {
	Timestamp  time.Time       `json:"timestamp"`
	Latitude   *float64        `json:"latitude"`
	Longitude  *float64        `json:"longitude"`
	Altitude   *float64        `json:"altitude"`
	CourseDeg  *float64        `json:"bearing"`
	SpeedKmh   *float64        `json:"speed_kmh"`
	SpeedKnots *float64        `json:"speed_knots"`
	Quality    nmea.FixQuality `json:"fix_quality"`
	Satellites int             `json:"satellite_count"`
	HDOP       *float64        `json:"hdop"`
}

// ToBytes serializes the fix for message-queue sinks.
func (f *Fix) ToBytes() ([]byte, error) {
	return json.Marshal(f)
}

// UTCToLocal converts a UTC timestamp into the given zone. The zone is
// passed explicitly so callers never depend on process-global state.
func UTCToLocal(t time.Time, loc *time.Location) time.Time {
	return t.UTC().In(loc)
}
