// Package sink receives the roaster's periodic log records and writes them
// to the console, CSV files and the roast store.
package sink

import (
	"context"

	"coffee_roaster/internal/models"

	"go.uber.org/multierr"
)

// Sink consumes log records.
type Sink interface {
	Write(ctx context.Context, rec models.LogRecord) error
	Close() error
}

// Multi fans records out to every sink.
type Multi []Sink

// Write writes rec to every sink, continuing past failures.
func (m Multi) Write(ctx context.Context, rec models.LogRecord) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Write(ctx, rec))
	}
	return err
}

// Close closes every sink.
func (m Multi) Close() error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Close())
	}
	return err
}
