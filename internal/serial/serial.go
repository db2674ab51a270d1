// Package serial opens a tty in raw 8N1 mode for line-oriented telemetry from
// the roaster board or a thermocouple bridge.
package serial

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoDevice        = errors.New("serial: device path required")
	ErrUnsupportedBaud = errors.New("serial: unsupported baud rate")
)

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., /dev/ttyACM0, /dev/tty.usbmodem2101)
	Device string

	// Baud rate (default: 115200)
	BaudRate int

	// ReadTimeout bounds a single read (default: 100ms, rounded to deciseconds)
	ReadTimeout time.Duration
}

const (
	defaultBaudRate    = 115200
	defaultReadTimeout = 100 * time.Millisecond
)

func (c Config) withDefaults() (Config, error) {
	if c.Device == "" {
		return c, ErrNoDevice
	}
	if c.BaudRate == 0 {
		c.BaudRate = defaultBaudRate
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	return c, nil
}

// vtime converts a read timeout to the termios VTIME unit (1/10 s), 1..255.
func vtime(d time.Duration) uint8 {
	ds := d / (100 * time.Millisecond)
	if ds < 1 {
		return 1
	}
	if ds > 255 {
		return 255
	}
	return uint8(ds)
}

func unsupportedBaud(baud int) error {
	return fmt.Errorf("%w: %d", ErrUnsupportedBaud, baud)
}
