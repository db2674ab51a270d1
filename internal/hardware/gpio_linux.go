//go:build linux

package hardware

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// GPIOHeater drives the heater's zero-cross/SSR input from a GPIO output line.
type GPIOHeater struct {
	mu     sync.Mutex
	line   *gpiocdev.Line
	offset int
}

// NewGPIOHeater requests offset on chip (e.g. "gpiochip0") as an output,
// initially low (heater off).
func NewGPIOHeater(chip string, offset int) (*GPIOHeater, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer("coffee-roaster"),
	)
	if err != nil {
		return nil, fmt.Errorf("request heater line %s:%d: %w", chip, offset, err)
	}
	return &GPIOHeater{line: line, offset: offset}, nil
}

// SetHeater drives the line high for on, low for off.
func (g *GPIOHeater) SetHeater(on bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.line == nil {
		return fmt.Errorf("heater line %d: closed", g.offset)
	}
	v := 0
	if on {
		v = 1
	}
	if err := g.line.SetValue(v); err != nil {
		return fmt.Errorf("set heater line %d: %w", g.offset, err)
	}
	return nil
}

// Close drives the line low, returns it to input with pull-down (boot
// default) and releases it.
func (g *GPIOHeater) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.line == nil {
		return nil
	}
	err := wrapf(g.line.SetValue(0), "drive heater line low")
	err = multierr.Append(err, wrapf(g.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown), "reconfigure heater line"))
	err = multierr.Append(err, wrapf(g.line.Close(), "close heater line"))
	g.line = nil
	return err
}

func wrapf(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
