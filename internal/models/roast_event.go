package models

import "time"

// Roast event types.
const (
	EventStart       = "START"
	EventStop        = "STOP"
	EventHeaterOn    = "HEATER_ON"
	EventHeaterOff   = "HEATER_OFF"
	EventPhaseChange = "PHASE_CHANGE"
)

// RoastEvent is a single roast log entry.
type RoastEvent struct {
	EventID     string    `json:"event_id"`
	RoastID     string    `json:"roast_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // START | STOP | HEATER_ON | HEATER_OFF | PHASE_CHANGE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
