//go:build !linux

package serial

import "errors"

// Port is not available on non-Linux platforms.
type Port struct{}

// Open returns an error on non-Linux platforms.
func Open(cfg Config) (*Port, error) {
	if _, err := cfg.withDefaults(); err != nil {
		return nil, err
	}
	return nil, errors.New("serial: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (p *Port) Read(b []byte) (int, error) { return 0, errors.New("serial: not supported") }

// Write is not implemented on non-Linux platforms.
func (p *Port) Write(b []byte) (int, error) { return 0, errors.New("serial: not supported") }

// Device returns an empty path on non-Linux platforms.
func (p *Port) Device() string { return "" }

// Close is a no-op on non-Linux platforms.
func (p *Port) Close() error { return nil }
