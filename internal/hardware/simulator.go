package hardware

import (
	"errors"
	"sync"
	"time"
)

// Simulation defaults.
const (
	DefaultAmbientC        = 25.0  // ambient temperature °C
	DefaultHeatRateCPerSec = 3.0   // °C per second gained while the heater is on
	DefaultLossCoefficient = 0.005 // fraction of (temp - ambient) lost per second

	maxSimStep = 100 * time.Millisecond
)

var ErrNegativeSimParam = errors.New("simulator: heat rate and loss coefficient must not be negative")

// SimulatorParams tunes the first-order thermal model.
type SimulatorParams struct {
	AmbientC        float64
	HeatRateCPerSec float64
	LossCoefficient float64
}

// DefaultSimulatorParams returns the defaults above.
func DefaultSimulatorParams() SimulatorParams {
	return SimulatorParams{
		AmbientC:        DefaultAmbientC,
		HeatRateCPerSec: DefaultHeatRateCPerSec,
		LossCoefficient: DefaultLossCoefficient,
	}
}

// Simulator is a simulated roaster drum. It is both the Sensor and the
// Actuator: heater commands feed the thermal model that readings come from.
type Simulator struct {
	mu       sync.Mutex
	params   SimulatorParams
	tempC    float64
	heaterOn bool
	last     time.Time
	now      func() time.Time
}

// NewSimulator starts a drum at ambient temperature.
func NewSimulator(params SimulatorParams) (*Simulator, error) {
	return newSimulator(params, time.Now)
}

func newSimulator(params SimulatorParams, now func() time.Time) (*Simulator, error) {
	if params.HeatRateCPerSec < 0 || params.LossCoefficient < 0 {
		return nil, ErrNegativeSimParam
	}
	return &Simulator{
		params: params,
		tempC:  params.AmbientC,
		last:   now(),
		now:    now,
	}, nil
}

// ReadTemperature advances the model to now and returns the drum temperature.
func (s *Simulator) ReadTemperature() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	return s.tempC, nil
}

// SetHeater advances the model to now and switches the heat input.
func (s *Simulator) SetHeater(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.heaterOn = on
	return nil
}

// HeaterOn reports the simulated heater line.
func (s *Simulator) HeaterOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heaterOn
}

// Close switches the simulated heater off.
func (s *Simulator) Close() error {
	return s.SetHeater(false)
}

// advance integrates the model in steps of at most maxSimStep.
// Caller must hold s.mu.
func (s *Simulator) advance() {
	now := s.now()
	remaining := now.Sub(s.last)
	s.last = now
	for remaining > 0 {
		step := remaining
		if step > maxSimStep {
			step = maxSimStep
		}
		dt := step.Seconds()
		if s.heaterOn {
			s.tempC += s.params.HeatRateCPerSec * dt
		}
		s.tempC += s.params.LossCoefficient * (s.params.AmbientC - s.tempC) * dt
		remaining -= step
	}
}
