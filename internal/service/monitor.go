package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"coffee_roaster/internal/hardware"
	"coffee_roaster/internal/logger"
	"coffee_roaster/internal/models"
	"coffee_roaster/internal/repository"
	"coffee_roaster/internal/sink"

	"github.com/google/uuid"
)

// MonitorStats counts what a monitor run saw.
type MonitorStats struct {
	Lines   int
	Records int
	Skipped int
}

// MonitorService records "actual,desired,status" telemetry lines printed by
// the roaster board, stamping each with the time since the monitor started.
type MonitorService struct {
	sink    sink.Sink
	roasts  repository.RoastRepo
	log     *logger.Logger
	now     func() time.Time
	roastID string
}

// NewMonitorService writes records to s. roasts is optional; when set, the
// session is stored as a roast so its samples can be listed later.
func NewMonitorService(s sink.Sink, roasts repository.RoastRepo, log *logger.Logger) *MonitorService {
	return &MonitorService{sink: s, roasts: roasts, log: logger.OrNop(log).Named("monitor"), now: time.Now}
}

// RoastID returns the session ID assigned by Run.
func (m *MonitorService) RoastID() string { return m.roastID }

// Run reads lines from r until EOF or ctx is cancelled. To stop a blocking
// reader, cancel ctx and close it; the resulting read error is not reported.
func (m *MonitorService) Run(ctx context.Context, r io.Reader) (MonitorStats, error) {
	var stats MonitorStats
	m.roastID = uuid.NewString()
	start := m.now()

	if m.roasts != nil {
		if err := m.roasts.Create(ctx, models.Roast{ID: m.roastID, StartedAt: start.UTC()}); err != nil {
			return stats, fmt.Errorf("create roast: %w", err)
		}
		defer func() {
			// ctx may already be cancelled here
			if err := m.roasts.Finish(context.WithoutCancel(ctx), m.roastID, m.now().UTC()); err != nil {
				m.log.Warnw("finish_roast_failed", "roast_id", m.roastID, "err", err)
			}
		}()
	}
	m.log.Infow("monitor_started", "roast_id", m.roastID)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return stats, nil
		}
		line := sc.Text()
		stats.Lines++
		m.log.Debugw("serial_line", "line", line)

		tel, err := hardware.ParseTelemetry(line)
		if err != nil {
			stats.Skipped++
			m.log.Debugw("line_skipped", "err", err)
			continue
		}
		now := m.now()
		rec := models.LogRecord{
			RoastID:       m.roastID,
			Timestamp:     now.UTC(),
			ElapsedS:      now.Sub(start).Seconds(),
			MeasuredTempC: tel.ActualC,
			SetpointTempC: tel.DesiredC,
			HeaterOn:      tel.HeaterOn,
		}
		m.log.Debugw("telemetry", "actual", rec.MeasuredTempC, "desired", rec.SetpointTempC, "heater", rec.HeaterStatus())
		if err := m.sink.Write(ctx, rec); err != nil {
			m.log.Warnw("log_write_failed", "err", err)
			continue
		}
		stats.Records++
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, io.EOF) {
		return stats, fmt.Errorf("read telemetry: %w", err)
	}
	return stats, nil
}
