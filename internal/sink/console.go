package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"coffee_roaster/internal/models"
)

// Console prints "measured, setpoint, heater" lines, the format the serial
// monitor parses on the host side.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole writes to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Write(_ context.Context, rec models.LogRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "%.2f, %.2f, %d\n", rec.MeasuredTempC, rec.SetpointTempC, rec.HeaterStatus())
	return err
}

// Close does not close the underlying writer.
func (c *Console) Close() error { return nil }
