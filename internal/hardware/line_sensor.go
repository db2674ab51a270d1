package hardware

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
)

// LineSensor reads a thermocouple bridge that prints one reading per line.
// A background goroutine keeps the most recent line; each ReadTemperature
// consumes it.
type LineSensor struct {
	rc io.ReadCloser

	mu      sync.Mutex
	latest  string
	fresh   bool
	readErr error

	done      chan struct{}
	closeOnce sync.Once
}

// NewLineSensor starts reading lines from rc. The sensor owns rc.
func NewLineSensor(rc io.ReadCloser) *LineSensor {
	s := &LineSensor{rc: rc, done: make(chan struct{})}
	go s.readLoop()
	return s
}

func (s *LineSensor) readLoop() {
	defer close(s.done)
	sc := bufio.NewScanner(s.rc)
	for sc.Scan() {
		s.mu.Lock()
		s.latest = sc.Text()
		s.fresh = true
		s.mu.Unlock()
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
}

// ReadTemperature parses the newest line received since the previous call.
// It returns ErrNoSample if nothing new arrived.
func (s *LineSensor) ReadTemperature() (float64, error) {
	s.mu.Lock()
	line, fresh, readErr := s.latest, s.fresh, s.readErr
	s.fresh = false
	s.mu.Unlock()

	if !fresh {
		if readErr != nil {
			return 0, fmt.Errorf("%w: reader stopped: %v", ErrNoSample, readErr)
		}
		return 0, ErrNoSample
	}
	return ParseReading(line)
}

// Close closes the underlying reader and waits for the reader goroutine.
func (s *LineSensor) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.rc.Close()
		<-s.done
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("close line sensor: %w", err)
	}
	return nil
}
