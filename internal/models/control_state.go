package models

import "time"

// ControlState is a point-in-time view of the roaster's shared control state.
type ControlState struct {
	ElapsedS      float64   `json:"elapsed_s"`       // seconds since roast start, set by the control task
	MeasuredTempC float64   `json:"measured_temp_c"` // °C, set by the sampling task
	SetpointTempC float64   `json:"setpoint_temp_c"` // °C, set by the control task
	HeaterOn      bool      `json:"heater_on"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LogRecord is what the logging task hands to sinks on every tick.
type LogRecord struct {
	RoastID       string    `json:"roast_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	ElapsedS      float64   `json:"elapsed_s"`
	MeasuredTempC float64   `json:"measured_temp_c"`
	SetpointTempC float64   `json:"setpoint_temp_c"`
	HeaterOn      bool      `json:"heater_on"`
	Phase         string    `json:"phase,omitempty"` // DRYING | BROWNING | DEVELOPMENT, empty without a phased profile
}

// HeaterStatus renders the heater flag the way the CSV log stores it.
func (r LogRecord) HeaterStatus() int {
	if r.HeaterOn {
		return 1
	}
	return 0
}
