package port

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// maxLineLen bounds a sentence without a terminator before the partial
// buffer is declared garbage and discarded.
const maxLineLen = 512

const (
	backoffBase = time.Second
	backoffCap  = 30 * time.Second
)

// Reader owns the serial connection for its lifetime. It turns the byte
// stream into CR/LF-framed lines and transparently re-opens the device on
// I/O errors, so consumers only ever see a reconnect as a gap in output.
type Reader struct {
	name string
	cfg  Config

	mu     sync.Mutex
	port   serial.Port
	closed bool
	done   chan struct{}
}

// NewReader wraps an already-open port, typically the one Locate returned.
func NewReader(p serial.Port, name string, cfg Config) *Reader {
	return &Reader{name: name, cfg: cfg, port: p, done: make(chan struct{})}
}

// Run reads lines into out until Close is called or the reconnect ceiling
// is exceeded. It closes out on return so downstream stages terminate.
func (r *Reader) Run(out chan<- string) error {
	defer close(out)

	buf := make([]byte, 512)
	var pending []byte

	for {
		p := r.current()
		if p == nil {
			return nil
		}

		n, err := p.Read(buf)
		if err != nil {
			if r.isClosed() {
				return nil
			}
			log.Warnf("Read error on %s, reconnecting: %v", r.name, err)
			pending = pending[:0]
			if err := r.reconnect(); err != nil {
				return err
			}
			continue
		}
		if n == 0 {
			// Read timeout; lets a pending Close be observed.
			continue
		}

		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := strings.TrimRight(string(pending[:i]), "\r")
			pending = pending[i+1:]
			if line != "" {
				out <- line
			}
		}
		if len(pending) > maxLineLen {
			log.Warnf("Discarding %d bytes without a line terminator on %s", len(pending), r.name)
			pending = pending[:0]
		}
	}
}

// Close releases the device handle, which also unblocks a pending read, and
// interrupts a reconnect backoff in progress, so shutdown is observed within
// one read timeout.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.done)
	}
	if r.port == nil {
		return nil
	}
	err := r.port.Close()
	r.port = nil
	return err
}

func (r *Reader) current() serial.Port {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.port
}

func (r *Reader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// reconnect closes the dead handle and re-opens the device with capped
// exponential backoff. A configured retry ceiling turns exhaustion into a
// fatal error; the default (0) retries forever.
func (r *Reader) reconnect() error {
	r.mu.Lock()
	if r.port != nil {
		_ = r.port.Close()
		r.port = nil
	}
	r.mu.Unlock()

	backoff := backoffBase
	for attempt := 1; ; attempt++ {
		if r.isClosed() {
			return nil
		}

		p, err := openPort(r.name, r.cfg.mode())
		if err == nil {
			_ = p.SetReadTimeout(r.cfg.ReadTimeout)
			r.mu.Lock()
			if r.closed {
				r.mu.Unlock()
				_ = p.Close()
				return nil
			}
			r.port = p
			r.mu.Unlock()
			log.Infof("Reconnected to %s after %d attempt(s)", r.name, attempt)
			return nil
		}

		if r.cfg.MaxReconnects > 0 && attempt >= r.cfg.MaxReconnects {
			return fmt.Errorf("device %s unavailable after %d reconnect attempts: %v", r.name, attempt, err)
		}

		log.Debugf("Reconnect attempt %d to %s failed: %v", attempt, r.name, err)
		select {
		case <-r.done:
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > backoffCap {
			backoff = backoffCap
		}
	}
}
