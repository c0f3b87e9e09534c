package nmea

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLatitude(t *testing.T) {
	assert.True(t, IsValidLatitude(45))
	assert.True(t, IsValidLatitude(-90))
	assert.True(t, IsValidLatitude(90))
	assert.False(t, IsValidLatitude(-100))
	assert.False(t, IsValidLatitude(90.0001))
}

func TestIsValidLongitude(t *testing.T) {
	assert.True(t, IsValidLongitude(120))
	assert.True(t, IsValidLongitude(-180))
	assert.True(t, IsValidLongitude(180))
	assert.False(t, IsValidLongitude(200))
	assert.False(t, IsValidLongitude(-180.0001))
}

func TestKnotsToKmh(t *testing.T) {
	assert.InDelta(t, 18.52, KnotsToKmh(10), 1e-9)
	assert.InDelta(t, 0, KnotsToKmh(0), 1e-9)
}

func TestDecimalDegreesToDMS(t *testing.T) {
	deg, min, sec := DecimalDegreesToDMS(12.3456)
	assert.Equal(t, 12, deg)
	assert.Equal(t, 20, min)
	assert.InDelta(t, 44.16, sec, 1e-6)

	deg, min, sec = DecimalDegreesToDMS(-55.5)
	assert.Equal(t, -55, deg)
	assert.Equal(t, 30, min)
	assert.InDelta(t, 0, sec, 1e-6)
}

func TestParseLatitude(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		hemisphere string
		expected   float64
		wantErr    bool
	}{
		{"North", "2500.0000", "N", 25.0, false},
		{"South", "4807.038", "S", -48.1173, false},
		{"No fractional minutes", "2530", "N", 25.5, false},
		{"Minutes overflow", "2560.0000", "N", 0, true},
		{"Degrees overflow", "9100.0000", "N", 0, true},
		{"Bad hemisphere", "2500.0000", "E", 0, true},
		{"Too short", "5.0", "N", 0, true},
		{"Garbage", "ab00.0000", "N", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, err := ParseLatitude(tt.value, tt.hemisphere)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			if assert.NoError(t, err) {
				assert.InDelta(t, tt.expected, lat, 1e-4)
			}
		})
	}
}

func TestParseLongitude(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		hemisphere string
		expected   float64
		wantErr    bool
	}{
		{"East", "05500.0000", "E", 55.0, false},
		{"West", "12159.39853", "W", -121.9899755, false},
		{"Bad hemisphere", "05500.0000", "N", 0, true},
		{"Degrees overflow", "18100.0000", "E", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, err := ParseLongitude(tt.value, tt.hemisphere)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			if assert.NoError(t, err) {
				assert.InDelta(t, tt.expected, lon, 1e-6)
			}
		})
	}
}
