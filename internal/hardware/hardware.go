// Package hardware provides the roaster's thermocouple sensor and heater
// actuator with hardware abstraction.
// Real implementations use Linux I2C, serial ttys and the GPIO character device.
// Fake and simulated implementations allow running and testing without hardware.
package hardware

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformedSample marks a reading that could not be parsed or validated.
	ErrMalformedSample = errors.New("malformed sample")
	// ErrNoSample means no new reading was available for this tick.
	ErrNoSample = errors.New("no new sample")
)

// Sensor reads the bean/drum temperature.
type Sensor interface {
	// ReadTemperature returns the current temperature in °C.
	ReadTemperature() (float64, error)

	// Close releases sensor resources.
	Close() error
}

// Actuator switches the heating element.
type Actuator interface {
	// SetHeater drives the heater output line.
	SetHeater(on bool) error

	// Close releases actuator resources. Implementations leave the heater off.
	Close() error
}

// Plausible thermocouple range (type K), °C.
const (
	MinValidTempC = -200.0
	MaxValidTempC = 1372.0
)

// ValidateTemperature rejects non-finite and out-of-range readings.
func ValidateTemperature(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return fmt.Errorf("%w: non-finite value", ErrMalformedSample)
	}
	if c < MinValidTempC || c > MaxValidTempC {
		return fmt.Errorf("%w: %.2f°C out of range", ErrMalformedSample, c)
	}
	return nil
}

// ParseReading parses one sensor line. The first comma-separated field is the
// temperature; anything after it is ignored.
func ParseReading(line string) (float64, error) {
	field, _, _ := strings.Cut(strings.TrimSpace(line), ",")
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, fmt.Errorf("%w: empty line", ErrMalformedSample)
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSample, field)
	}
	if err := ValidateTemperature(v); err != nil {
		return 0, err
	}
	return v, nil
}

// Telemetry is one line printed by the roaster board: measured and desired
// temperature plus heater status.
type Telemetry struct {
	ActualC  float64
	DesiredC float64
	HeaterOn bool
}

// ParseTelemetry parses an "actual, desired, status" line.
func ParseTelemetry(line string) (Telemetry, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 3 {
		return Telemetry{}, fmt.Errorf("%w: want 3 fields, got %d in %q", ErrMalformedSample, len(parts), line)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Telemetry{}, fmt.Errorf("%w: field %d %q", ErrMalformedSample, i+1, p)
		}
		vals[i] = v
	}
	return Telemetry{ActualC: vals[0], DesiredC: vals[1], HeaterOn: vals[2] != 0}, nil
}
