// Package control implements on/off heater control with a hysteresis deadband.
package control

import (
	"errors"
	"math"
)

var ErrInvalidDeadband = errors.New("deadband must be a finite, non-negative number")

// Decide returns the next heater state. Below setpoint-deadband the heater is
// switched on, above setpoint+deadband it is switched off, and inside the band
// the previous state is held.
func Decide(measured, setpoint, deadband float64, previousOn bool) bool {
	switch {
	case measured < setpoint-deadband:
		return true
	case measured > setpoint+deadband:
		return false
	default:
		return previousOn
	}
}

// BangBang is a bang-bang controller with a fixed deadband.
type BangBang struct {
	deadband float64
}

// NewBangBang returns a controller for the given deadband width (°C).
func NewBangBang(deadband float64) (*BangBang, error) {
	if math.IsNaN(deadband) || math.IsInf(deadband, 0) || deadband < 0 {
		return nil, ErrInvalidDeadband
	}
	return &BangBang{deadband: deadband}, nil
}

// Deadband returns the hysteresis width.
func (b *BangBang) Deadband() float64 { return b.deadband }

// Decide evaluates one control tick.
func (b *BangBang) Decide(measured, setpoint float64, previousOn bool) bool {
	return Decide(measured, setpoint, b.deadband, previousOn)
}
