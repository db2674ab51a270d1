package hardware

import (
	"sync"

	"coffee_roaster/internal/logger"
)

// LogActuator has no output line; it logs heater transitions.
// Used for dry runs against a real sensor.
type LogActuator struct {
	mu  sync.Mutex
	log *logger.Logger
	on  bool
	set bool
}

// NewLogActuator returns an actuator that only logs.
func NewLogActuator(log *logger.Logger) *LogActuator {
	return &LogActuator{log: logger.OrNop(log)}
}

// SetHeater logs the command when it differs from the previous one.
func (a *LogActuator) SetHeater(on bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.set || a.on != on {
		a.log.Infow("heater_switched", "on", on)
	}
	a.on, a.set = on, true
	return nil
}

// Close is a no-op.
func (a *LogActuator) Close() error { return nil }
