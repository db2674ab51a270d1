//go:build linux

package serial

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Port is an open tty. It implements io.ReadWriteCloser.
type Port struct {
	mu         sync.Mutex
	f          *os.File
	device     string
	oldTermios *unix.Termios
	closed     bool
}

// Open opens and configures a serial port.
func Open(cfg Config) (*Port, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	speed, ok := baudRates[cfg.BaudRate]
	if !ok {
		return nil, unsupportedBaud(cfg.BaudRate)
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}

	oldTermios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: get termios: %w", err)
	}

	termios := *oldTermios

	// Input flags - disable all input processing
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY

	// Output flags - disable all output processing
	termios.Oflag &^= unix.OPOST

	// Control flags - 8N1 at the requested speed
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CBAUD
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	termios.Ispeed = speed
	termios.Ospeed = speed

	// Local flags - raw mode
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = vtime(cfg.ReadTimeout)

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &termios); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: set termios: %w", err)
	}

	// Discard whatever the board printed before we attached.
	_ = unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)

	// fd must stay non-blocking: Close interrupts pending reads via the poller.
	return &Port{
		f:          os.NewFile(uintptr(fd), cfg.Device),
		device:     cfg.Device,
		oldTermios: oldTermios,
	}, nil
}

// Read reads raw bytes from the port.
func (p *Port) Read(b []byte) (int, error) { return p.f.Read(b) }

// Write writes raw bytes to the port.
func (p *Port) Write(b []byte) (int, error) { return p.f.Write(b) }

// Device returns the device path.
func (p *Port) Device() string { return p.device }

// Close restores the original termios settings and closes the port.
// Closing twice is a no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	// SyscallConn keeps the fd non-blocking, unlike Fd.
	if rc, err := p.f.SyscallConn(); err == nil && p.oldTermios != nil {
		_ = rc.Control(func(fd uintptr) {
			_ = unix.IoctlSetTermios(int(fd), unix.TCSETS, p.oldTermios)
		})
	}
	if err := p.f.Close(); err != nil {
		return fmt.Errorf("serial: close %s: %w", p.device, err)
	}
	return nil
}

var baudRates = map[int]uint32{
	1200:    unix.B1200,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	921600:  unix.B921600,
	1000000: unix.B1000000,
}
