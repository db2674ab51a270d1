// Package state holds the control state shared by the sampling, control and
// logging tasks.
package state

import (
	"sync"
	"time"

	"coffee_roaster/internal/models"
)

// Store is the single owner of the roaster's mutable control state.
// Writers update disjoint fields; readers take whole-struct snapshots, which
// may combine values from different control cycles.
type Store struct {
	mu  sync.RWMutex
	st  models.ControlState
	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// SetMeasured records the latest sensor reading.
func (s *Store) SetMeasured(tempC float64) {
	s.mu.Lock()
	s.st.MeasuredTempC = tempC
	s.st.UpdatedAt = s.now().UTC()
	s.mu.Unlock()
}

// SetControl records the outcome of a control tick.
func (s *Store) SetControl(elapsedS, setpointC float64, heaterOn bool) {
	s.mu.Lock()
	s.st.ElapsedS = elapsedS
	s.st.SetpointTempC = setpointC
	s.st.HeaterOn = heaterOn
	s.st.UpdatedAt = s.now().UTC()
	s.mu.Unlock()
}

// SetHeater overrides the heater flag, used when shutting the heater down.
func (s *Store) SetHeater(on bool) {
	s.mu.Lock()
	s.st.HeaterOn = on
	s.st.UpdatedAt = s.now().UTC()
	s.mu.Unlock()
}

// Measured returns the latest sensor reading.
func (s *Store) Measured() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.MeasuredTempC
}

// HeaterOn returns the current heater flag.
func (s *Store) HeaterOn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.HeaterOn
}

// Snapshot returns a consistent copy of the whole state.
func (s *Store) Snapshot() models.ControlState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}
