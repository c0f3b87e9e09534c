package port

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/pravinkori/gps-data-parser/libs/nmea"
)

// ErrNoPortFound is returned when no candidate device yields valid NMEA
// traffic. There is no recovery path; the caller surfaces it at startup.
var ErrNoPortFound = errors.New("no responsive GPS serial port found")

// Seams for tests: the OS enumeration and open primitives are the only
// platform-specific pieces, so they are replaceable.
var (
	listPorts = enumerator.GetDetailedPortsList
	openPort  = func(name string, mode *serial.Mode) (serial.Port, error) {
		return serial.Open(name, mode)
	}
)

// Config is the serial configuration surface consumed (not owned) by this
// package.
type Config struct {
	BaudRate      int
	ProbeTimeout  time.Duration
	ReadTimeout   time.Duration
	DevicePattern string // optional glob allow-list, e.g. /dev/ttyUSB*
	MaxReconnects int    // 0 = retry forever with capped backoff
}

func (c Config) mode() *serial.Mode {
	return &serial.Mode{BaudRate: c.BaudRate}
}

// USB bridge controllers commonly found on GPS receiver boards. Candidates
// matching one of these are probed first.
var preferredBridges = []string{
	"CP2102N USB to UART Bridge Controller",
	"Silicon Labs CP210x USB to UART Bridge",
}

func isPreferred(product string) bool {
	for _, b := range preferredBridges {
		if strings.Contains(product, b) || strings.Contains(product, "CP210") {
			return true
		}
	}
	return false
}

// Locate enumerates candidate serial devices, probes each for valid NMEA
// traffic and returns the first responsive port, still open. Devices that
// fail to open, time out or yield no valid sentence are skipped.
func Locate(cfg Config) (serial.Port, string, error) {
	details, err := listPorts()
	if err != nil {
		return nil, "", err
	}

	var candidates []*enumerator.PortDetails
	for _, d := range details {
		if cfg.DevicePattern != "" {
			if ok, _ := filepath.Match(cfg.DevicePattern, d.Name); !ok {
				continue
			}
		}
		candidates = append(candidates, d)
	}

	// Known USB-to-UART bridges go to the front of the probe order.
	ordered := make([]*enumerator.PortDetails, 0, len(candidates))
	for _, d := range candidates {
		if d.IsUSB && isPreferred(d.Product) {
			ordered = append(ordered, d)
		}
	}
	for _, d := range candidates {
		if !(d.IsUSB && isPreferred(d.Product)) {
			ordered = append(ordered, d)
		}
	}

	for _, d := range ordered {
		p, err := openPort(d.Name, cfg.mode())
		if err != nil {
			log.WithField("device", d.Name).Debugf("Skipping device, open failed: %v", err)
			continue
		}
		if probe(p, cfg.ProbeTimeout) {
			_ = p.SetReadTimeout(cfg.ReadTimeout)
			log.Infof("Selected GPS device %s", d.Name)
			return p, d.Name, nil
		}
		log.WithField("device", d.Name).Debug("No valid NMEA traffic during probe window")
		_ = p.Close()
	}

	return nil, "", ErrNoPortFound
}

func hasRecognizedTalker(line string) bool {
	for _, prefix := range []string{"$GN", "$GP", "$GL"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// probe reads the device for the probe window and accepts it on the first
// line with a recognized talker prefix and a valid checksum.
func probe(p serial.Port, window time.Duration) bool {
	if err := p.SetReadTimeout(250 * time.Millisecond); err != nil {
		return false
	}

	deadline := time.Now().Add(window)
	buf := make([]byte, 256)
	var pending []byte

	for time.Now().Before(deadline) {
		n, err := p.Read(buf)
		if err != nil {
			return false
		}
		if n == 0 {
			continue
		}
		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := strings.TrimSpace(string(pending[:i]))
			pending = pending[i+1:]
			if hasRecognizedTalker(line) && nmea.ChecksumValid(line) {
				return true
			}
		}
		if len(pending) > maxLineLen {
			pending = pending[:0]
		}
	}
	return false
}
