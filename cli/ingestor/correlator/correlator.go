package correlator

import (
	"time"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
	"github.com/pravinkori/gps-data-parser/libs/nmea"
)

var now = time.Now // For mocking time.Now() in tests

// Correlator merges the latest GGA and VTG sentences into logical fixes.
// It keeps one last-seen register per sentence type; registers are
// overwritten on every new sentence and are never consumed, so a single
// VTG keeps contributing speed to consecutive GGA fixes until superseded.
//
// Only the ingestion goroutine touches a Correlator, so it needs no
// locking.
type Correlator struct {
	tolerance   time.Duration
	emitPartial bool
	loc         *time.Location

	lastGGA    *nmea.GGA
	ggaArrived time.Time
	ggaStamp   time.Time

	lastVTG    *nmea.VTG
	vtgArrived time.Time
}

// New creates a correlator. tolerance is the maximum age of the counterpart
// register for a merge; emitPartial controls whether a no-fix GGA still
// produces a fix with null position; loc is the zone fixes are stamped in.
func New(tolerance time.Duration, emitPartial bool, loc *time.Location) *Correlator {
	if loc == nil {
		loc = time.UTC
	}
	return &Correlator{tolerance: tolerance, emitPartial: emitPartial, loc: loc}
}

// Observe feeds one parsed sentence into the registers. It returns a merged
// fix and true when the sentence completes a GGA/VTG pair within the
// correlation tolerance.
func (c *Correlator) Observe(s nmea.Sentence) (*fix.Fix, bool) {
	switch v := s.(type) {
	case nmea.GGA:
		arrived := now()
		c.lastGGA = &v
		c.ggaArrived = arrived
		c.ggaStamp = v.Time.Resolve(arrived)
		if c.lastVTG == nil || arrived.Sub(c.vtgArrived) > c.tolerance {
			return nil, false
		}
		return c.merge()
	case nmea.VTG:
		arrived := now()
		c.lastVTG = &v
		c.vtgArrived = arrived
		if c.lastGGA == nil || arrived.Sub(c.ggaArrived) > c.tolerance {
			return nil, false
		}
		return c.merge()
	default:
		return nil, false
	}
}

// merge builds a fix from both registers. The GGA timestamp is
// authoritative.
func (c *Correlator) merge() (*fix.Fix, bool) {
	gga, vtg := c.lastGGA, c.lastVTG

	if !gga.HasFix() && !c.emitPartial {
		return nil, false
	}

	f := &fix.Fix{
		Timestamp:  fix.UTCToLocal(c.ggaStamp, c.loc),
		Latitude:   gga.Latitude,
		Longitude:  gga.Longitude,
		Altitude:   gga.Altitude,
		CourseDeg:  vtg.CourseTrue,
		SpeedKmh:   vtg.SpeedKmh,
		SpeedKnots: vtg.SpeedKnots,
		Quality:    gga.Quality,
		Satellites: gga.Satellites,
		HDOP:       gga.HDOP,
	}
	return f, true
}
