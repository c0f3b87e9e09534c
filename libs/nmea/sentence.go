package nmea

import (
	"strconv"
	"strings"
)

// RejectReason classifies why a line could not be decoded.
type RejectReason int

const (
	ReasonFraming RejectReason = iota
	ReasonChecksumMismatch
	ReasonUnsupportedType
	ReasonFieldDecodeError
)

func (r RejectReason) String() string {
	switch r {
	case ReasonFraming:
		return "framing"
	case ReasonChecksumMismatch:
		return "checksum_mismatch"
	case ReasonUnsupportedType:
		return "unsupported_type"
	case ReasonFieldDecodeError:
		return "field_decode_error"
	default:
		return "unknown"
	}
}

// Sentence is a decoded NMEA-0183 sentence. Concrete types are GGA, VTG
// and Unrecognized.
type Sentence interface {
	sentence()
}

// Unrecognized is returned for any line that does not decode into a
// supported sentence, together with the reason it was rejected.
type Unrecognized struct {
	Raw    string
	Reason RejectReason
}

func (Unrecognized) sentence() {}

// Checksum is the XOR fold of the payload bytes between '$' and '*'.
func Checksum(payload string) byte {
	var sum byte
	for i := 0; i < len(payload); i++ {
		sum ^= payload[i]
	}
	return sum
}

// ChecksumValid reports whether a full "$...*HH" line carries a checksum
// matching its payload. Lines without the frame markers are invalid.
func ChecksumValid(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 4 || line[0] != '$' {
		return false
	}
	star := strings.IndexByte(line, '*')
	if star == -1 || len(line) < star+3 {
		return false
	}
	want, err := strconv.ParseUint(line[star+1:star+3], 16, 8)
	if err != nil {
		return false
	}
	return Checksum(line[1:star]) == byte(want)
}

// Parse decodes one raw NMEA line. It never fails with an error: any line
// that is not a well-formed GGA or VTG sentence comes back as Unrecognized
// with the rejection reason, so the caller can count and drop it.
func Parse(line string) Sentence {
	raw := strings.TrimSpace(line)

	if len(raw) == 0 || raw[0] != '$' || strings.Count(raw, "*") != 1 {
		return Unrecognized{Raw: raw, Reason: ReasonFraming}
	}
	star := strings.IndexByte(raw, '*')
	if len(raw)-star-1 < 2 {
		return Unrecognized{Raw: raw, Reason: ReasonFraming}
	}
	want, err := strconv.ParseUint(raw[star+1:star+3], 16, 8)
	if err != nil {
		return Unrecognized{Raw: raw, Reason: ReasonFraming}
	}

	payload := raw[1:star]
	if Checksum(payload) != byte(want) {
		return Unrecognized{Raw: raw, Reason: ReasonChecksumMismatch}
	}

	fields := strings.Split(payload, ",")
	id := fields[0]
	if len(id) != 5 {
		return Unrecognized{Raw: raw, Reason: ReasonUnsupportedType}
	}
	talker, typ := id[:2], id[2:]

	switch typ {
	case "GGA":
		return parseGGA(raw, talker, fields)
	case "VTG":
		return parseVTG(raw, talker, fields)
	default:
		return Unrecognized{Raw: raw, Reason: ReasonUnsupportedType}
	}
}

// optFloat parses an optional numeric field. An empty field is nil, not an
// error; receivers legitimately leave fields blank before the first fix.
func optFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
