package repository

import (
	"context"
	"database/sql"
	"time"

	"coffee_roaster/internal/models"
)

type RoastRepo interface {
	Create(ctx context.Context, r models.Roast) error
	Finish(ctx context.Context, id string, at time.Time) error
	Get(ctx context.Context, id string) (models.Roast, error)
}

type SampleRepo interface {
	Append(ctx context.Context, rec models.LogRecord) error
	List(ctx context.Context, roastID string) ([]models.LogRecord, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.RoastEvent) error
	List(ctx context.Context, roastID, typ string) ([]models.RoastEvent, error)
}

type Repository struct {
	RoastRepo  RoastRepo
	SampleRepo SampleRepo
	EventRepo  EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RoastRepo:  NewRoastSQLite(db),
		SampleRepo: NewSampleSQLite(db),
		EventRepo:  NewEventSQLite(db),
	}
}
