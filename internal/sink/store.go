package sink

import (
	"context"

	"coffee_roaster/internal/models"
	"coffee_roaster/internal/repository"
)

// Store appends records to the roast sample table.
type Store struct {
	repo repository.SampleRepo
}

// NewStore wraps a sample repository.
func NewStore(repo repository.SampleRepo) *Store {
	return &Store{repo: repo}
}

func (s *Store) Write(ctx context.Context, rec models.LogRecord) error {
	return s.repo.Append(ctx, rec)
}

// Close is a no-op; the database handle is owned by the caller.
func (s *Store) Close() error { return nil }
