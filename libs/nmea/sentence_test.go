package nmea

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected byte
	}{
		{
			name:     "Empty payload",
			payload:  "",
			expected: 0x00,
		},
		{
			name:     "Spec scenario GGA payload",
			payload:  "GNGGA,120000.00,2500.0000,N,05500.0000,E,1,08,0.9,10.0,M,,,,",
			expected: 0x15,
		},
		{
			name:     "VTG payload",
			payload:  "GNVTG,054.7,T,034.4,M,005.5,N,010.2,K",
			expected: 0x56,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Checksum(tt.payload))
			// Recomputing must be deterministic: no hidden state.
			assert.Equal(t, tt.expected, Checksum(tt.payload))
		})
	}
}

func TestChecksumValid(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"Valid GGA", "$GNGGA,120000.00,2500.0000,N,05500.0000,E,1,08,0.9,10.0,M,,,,*15", true},
		{"Valid empty payload", "$*00", true},
		{"Wrong checksum", "$GNGGA,120000.00,2500.0000,N,05500.0000,E,1,08,0.9,10.0,M,,,,*16", false},
		{"No dollar", "GNGGA,120000.00*15", false},
		{"No star", "$GNGGA,120000.00", false},
		{"Short checksum", "$GNGGA*1", false},
		{"Non-hex checksum", "$GNGGA*zz", false},
		{"Empty line", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChecksumValid(tt.line))
		})
	}
}

func TestParseRejectsMalformedFraming(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"Empty line", ""},
		{"Missing dollar", "GNGGA,120000.00,2500.0000,N,05500.0000,E,1,08,0.9,10.0,M,,,,*15"},
		{"Missing star", "$GNGGA,120000.00,2500.0000,N,05500.0000,E,1,08,0.9,10.0,M,,,,"},
		{"Two stars", "$GNGGA,12*00,2500.0000,N*15"},
		{"Truncated checksum", "$GNGGA,120000.00*1"},
		{"Non-hex checksum", "$GNGGA,120000.00*zz"},
		{"Binary garbage", "\x02\x42\x13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.line)
			u, ok := s.(Unrecognized)
			if assert.True(t, ok, "expected Unrecognized, got %T", s) {
				assert.Equal(t, ReasonFraming, u.Reason)
			}
		})
	}
}

func TestParseRejectsChecksumMismatch(t *testing.T) {
	lines := []string{
		"$GNGGA,120000.00,2500.0000,N,05500.0000,E,1,08,0.9,10.0,M,,,,*16",
		"$GNVTG,054.7,T,034.4,M,005.5,N,010.2,K*00",
		// One corrupted payload byte, original checksum.
		"$GNGGA,120000.01,2500.0000,N,05500.0000,E,1,08,0.9,10.0,M,,,,*15",
	}

	for _, line := range lines {
		s := Parse(line)
		u, ok := s.(Unrecognized)
		if assert.True(t, ok, "expected Unrecognized for %q, got %T", line, s) {
			assert.Equal(t, ReasonChecksumMismatch, u.Reason)
		}
	}
}

func TestParseRejectsUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"RMC sentence", "$GNRMC,120000.00,A,2500.0000,N,05500.0000,E,0.5,54.7,010124,,,A*71"},
		{"Short identifier", "$GGA,120000.00,2500.0000,N*27"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.line)
			u, ok := s.(Unrecognized)
			if assert.True(t, ok, "expected Unrecognized, got %T", s) {
				assert.Equal(t, ReasonUnsupportedType, u.Reason)
			}
		})
	}
}

func TestParseKeepsRawLine(t *testing.T) {
	line := "$GNRMC,120000.00,A,2500.0000,N,05500.0000,E,0.5,54.7,010124,,,A*71"
	s := Parse(line + "\r\n")
	u, ok := s.(Unrecognized)
	if assert.True(t, ok) {
		assert.Equal(t, line, u.Raw)
	}
}

func TestRejectReasonString(t *testing.T) {
	assert.Equal(t, "framing", ReasonFraming.String())
	assert.Equal(t, "checksum_mismatch", ReasonChecksumMismatch.String())
	assert.Equal(t, "unsupported_type", ReasonUnsupportedType.String())
	assert.Equal(t, "field_decode_error", ReasonFieldDecodeError.String())
}
