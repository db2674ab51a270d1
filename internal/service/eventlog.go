package service

import (
	"context"
	"errors"
	"strings"

	"coffee_roaster/internal/models"
	"coffee_roaster/internal/repository"
)

// LogFilter selects one roast's events, optionally of a single type.
type LogFilter struct {
	RoastID string
	Type    string
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var errMissingRoastID = errors.New("roast id is required")

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.RoastEvent, error) {
	id := strings.TrimSpace(f.RoastID)
	if id == "" {
		return nil, errMissingRoastID
	}
	return s.eventRepo.List(ctx, id, normalizeEventType(f.Type))
}
