package service

import (
	"context"
	"io"

	"coffee_roaster/internal/models"
	"coffee_roaster/internal/repository"
)

// Roaster runs one roast until its context is cancelled.
type Roaster interface {
	Run(ctx context.Context) error
	Shutdown(ctx context.Context) error
	RoastID() string
}

// Monitor records board telemetry from a line stream.
type Monitor interface {
	Run(ctx context.Context, r io.Reader) (MonitorStats, error)
}

// EventLog exposes a roast's append-only event log.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RoastEvent, error)
}

// Service aggregates the read-side services backed by the roast store.
type Service struct {
	EventLog
}

func NewService(repos *repository.Repository) *Service {
	return &Service{
		EventLog: NewEventLogService(repos.EventRepo),
	}
}

var (
	_ Roaster = (*RoasterService)(nil)
	_ Monitor = (*MonitorService)(nil)
)
