package models

import "time"

// AnchorPoint is one (time, temperature) vertex of a stored roast profile.
type AnchorPoint struct {
	TimeS float64 `json:"time_s"`
	TempC float64 `json:"temp_c"`
}

// Roast describes one controller run.
type Roast struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Deadband   float64       `json:"deadband"`
	Anchors    []AnchorPoint `json:"anchors"`
}
