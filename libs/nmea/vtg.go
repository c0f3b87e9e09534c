package nmea

// VTG is the course-and-speed-over-ground sentence. All measurements are
// optional: a receiver without a fix emits the frame with empty fields.
type VTG struct {
	Talker     string
	CourseTrue *float64 // degrees, true north
	CourseMag  *float64 // degrees, magnetic north
	SpeedKnots *float64
	SpeedKmh   *float64
}

func (VTG) sentence() {}

// VTG payload layout:
//
//	0: talker+type       4: M               8: K
//	1: course (true)     5: speed (knots)   9: mode indicator (v2.3+)
//	2: T                 6: N
//	3: course (magnetic) 7: speed (km/h)
func parseVTG(raw, talker string, f []string) Sentence {
	if len(f) < 9 {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}

	v := VTG{Talker: talker}

	var err error
	if v.CourseTrue, err = optFloat(f[1]); err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}
	if v.CourseMag, err = optFloat(f[3]); err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}
	if v.SpeedKnots, err = optFloat(f[5]); err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}
	if v.SpeedKmh, err = optFloat(f[7]); err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFieldDecodeError}
	}

	// Speed in km/h is derivable when the receiver only filled the knots
	// field.
	if v.SpeedKmh == nil && v.SpeedKnots != nil {
		kmh := KnotsToKmh(*v.SpeedKnots)
		v.SpeedKmh = &kmh
	}

	return v
}
