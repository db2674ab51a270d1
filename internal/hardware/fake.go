package hardware

import (
	"errors"
	"sync"
)

// FakeSensor is a test double that returns scripted readings.
type FakeSensor struct {
	mu sync.Mutex

	// Samples contains scripted readings. Each call to ReadTemperature
	// consumes the next one; once exhausted the last is repeated.
	Samples []FakeSample

	index  int
	reads  int
	closed bool
}

// FakeSample is one scripted reading; a non-nil Err is returned instead of TempC.
type FakeSample struct {
	TempC float64
	Err   error
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples ...FakeSample) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// ReadTemperature returns the next scripted sample.
func (f *FakeSensor) ReadTemperature() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	if s.Err != nil {
		return 0, s.Err
	}
	return s.TempC, nil
}

// Reads returns how many times ReadTemperature was called.
func (f *FakeSensor) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Closed reports whether Close was called.
func (f *FakeSensor) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// FakeActuator records every heater command.
type FakeActuator struct {
	mu       sync.Mutex
	commands []bool
	closed   bool

	// SetErr, if set, is returned by SetHeater after recording the command.
	SetErr error
}

// SetHeater records the command.
func (f *FakeActuator) SetHeater(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, on)
	return f.SetErr
}

// Commands returns a copy of all recorded commands.
func (f *FakeActuator) Commands() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]bool, len(f.commands))
	copy(out, f.commands)
	return out
}

// Last returns the most recent command, false if none was sent.
func (f *FakeActuator) Last() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.commands) == 0 {
		return false
	}
	return f.commands[len(f.commands)-1]
}

// Closed reports whether Close was called.
func (f *FakeActuator) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}
