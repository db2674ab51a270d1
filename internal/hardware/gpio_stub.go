//go:build !linux

package hardware

import "errors"

// GPIOHeater is not available on non-Linux platforms.
type GPIOHeater struct{}

// NewGPIOHeater returns an error on non-Linux platforms.
func NewGPIOHeater(chip string, offset int) (*GPIOHeater, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetHeater is not implemented on non-Linux platforms.
func (g *GPIOHeater) SetHeater(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (g *GPIOHeater) Close() error {
	return nil
}
