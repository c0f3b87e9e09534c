package config

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"
)

type SerialSettings struct {
	BaudRate      int    `yaml:"baud_rate"`
	ProbeTimeout  int    `yaml:"probe_timeout"` // seconds per candidate device
	ReadTimeout   int    `yaml:"read_timeout"`  // seconds, bounds shutdown observation
	DevicePattern string `yaml:"device_pattern"`
	MaxReconnects int    `yaml:"max_reconnects"` // 0 = retry forever
}

type CorrelationSettings struct {
	ToleranceMs int   `yaml:"tolerance_ms"`
	EmitPartial *bool `yaml:"emit_partial"`
}

type Settings struct {
	LogLevel      string                       `yaml:"log_level"`
	LogFilePath   string                       `yaml:"log_file_path"`
	LogMaxAgeDays int                          `yaml:"log_max_age_days"`
	Serial        SerialSettings               `yaml:"serial"`
	Correlation   CorrelationSettings          `yaml:"correlation"`
	QueueCapacity int                          `yaml:"queue_capacity"`
	Timezone      string                       `yaml:"timezone"`
	Store         map[string]map[string]string `yaml:"storage"`
}

func (s *Settings) GetProbeTimeout() time.Duration {
	return time.Duration(s.Serial.ProbeTimeout) * time.Second
}

func (s *Settings) GetReadTimeout() time.Duration {
	return time.Duration(s.Serial.ReadTimeout) * time.Second
}

func (s *Settings) GetCorrelationTolerance() time.Duration {
	return time.Duration(s.Correlation.ToleranceMs) * time.Millisecond
}

// GetEmitPartial reports whether no-fix GGA merges still emit a fix with
// null position. Defaults to true so downstream consumers can tell
// "receiver live but no fix" apart from silence.
func (s *Settings) GetEmitPartial() bool {
	if s.Correlation.EmitPartial == nil {
		return true
	}
	return *s.Correlation.EmitPartial
}

// GetLocation resolves the configured timezone identifier.
func (s *Settings) GetLocation() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

func (s *Settings) GetLogLevel() log.Level {
	var lvl log.Level

	switch s.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

func New(confPath string) (Settings, error) {
	c := Settings{}
	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, err
	}

	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = 9600
	}
	if c.Serial.ProbeTimeout == 0 {
		c.Serial.ProbeTimeout = 2
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = 1
	}
	if c.Correlation.ToleranceMs == 0 {
		c.Correlation.ToleranceMs = 1000
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = 100
	}

	if c.Serial.MaxReconnects < 0 {
		log.Errorf("Invalid max_reconnects (%d). Value must be >= 0. Defaulting to 0 (retry forever).", c.Serial.MaxReconnects)
		c.Serial.MaxReconnects = 0
	}

	return c, err
}
