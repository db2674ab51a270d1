package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"coffee_roaster/internal/control"
	"coffee_roaster/internal/hardware"
	"coffee_roaster/internal/logger"
	"coffee_roaster/internal/models"
	"coffee_roaster/internal/profile"
	"coffee_roaster/internal/repository"
	"coffee_roaster/internal/sink"
	"coffee_roaster/internal/state"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Default task periods.
const (
	DefaultSamplingPeriod = 100 * time.Millisecond
	DefaultControlPeriod  = 1 * time.Second
	DefaultLoggingPeriod  = 200 * time.Millisecond
)

var (
	errAlreadyStarted = errors.New("roaster already started")
	errNonPositive    = errors.New("task period must be positive")
)

// RoasterOptions wires a RoasterService. Phased, Roasts, Events and Log are
// optional; zero periods fall back to the defaults.
type RoasterOptions struct {
	Profile    *profile.Profile
	Phased     *profile.PhasedProfile
	Controller *control.BangBang
	State      *state.Store
	Sensor     hardware.Sensor
	Actuator   hardware.Actuator
	Sink       sink.Sink
	Roasts     repository.RoastRepo
	Events     repository.EventRepo
	Log        *logger.Logger

	SamplingPeriod time.Duration
	ControlPeriod  time.Duration
	LoggingPeriod  time.Duration
}

// RoasterService runs the sampling, control and logging tasks of one roast.
type RoasterService struct {
	profile    *profile.Profile
	phased     *profile.PhasedProfile
	controller *control.BangBang
	state      *state.Store
	sensor     hardware.Sensor
	actuator   hardware.Actuator
	sink       sink.Sink
	roasts     repository.RoastRepo
	events     repository.EventRepo
	log        *logger.Logger

	samplingPeriod time.Duration
	controlPeriod  time.Duration
	loggingPeriod  time.Duration

	now     func() time.Time
	started atomic.Bool
	roastID string
	start   time.Time

	// owned by the control task
	phase string

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewRoasterService validates opts and builds the service.
func NewRoasterService(opts RoasterOptions) (*RoasterService, error) {
	switch {
	case opts.Profile == nil:
		return nil, errors.New("profile is required")
	case opts.Controller == nil:
		return nil, errors.New("controller is required")
	case opts.Sensor == nil:
		return nil, errors.New("sensor is required")
	case opts.Actuator == nil:
		return nil, errors.New("actuator is required")
	case opts.Sink == nil:
		return nil, errors.New("sink is required")
	}
	periods := []*time.Duration{&opts.SamplingPeriod, &opts.ControlPeriod, &opts.LoggingPeriod}
	defaults := []time.Duration{DefaultSamplingPeriod, DefaultControlPeriod, DefaultLoggingPeriod}
	for i, p := range periods {
		if *p == 0 {
			*p = defaults[i]
		}
		if *p < 0 {
			return nil, fmt.Errorf("%w: %s", errNonPositive, *p)
		}
	}
	st := opts.State
	if st == nil {
		st = state.New()
	}
	return &RoasterService{
		profile:        opts.Profile,
		phased:         opts.Phased,
		controller:     opts.Controller,
		state:          st,
		sensor:         opts.Sensor,
		actuator:       opts.Actuator,
		sink:           opts.Sink,
		roasts:         opts.Roasts,
		events:         opts.Events,
		log:            logger.OrNop(opts.Log).Named("roaster"),
		samplingPeriod: opts.SamplingPeriod,
		controlPeriod:  opts.ControlPeriod,
		loggingPeriod:  opts.LoggingPeriod,
		now:            time.Now,
	}, nil
}

// RoastID returns the ID of the running roast, empty before Run.
func (s *RoasterService) RoastID() string { return s.roastID }

// State returns the shared control state.
func (s *RoasterService) State() *state.Store { return s.state }

// Run starts the roast and blocks until ctx is cancelled. Cancellation is
// the normal way to stop and returns nil. Run may be called once.
func (s *RoasterService) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errAlreadyStarted
	}
	s.roastID = uuid.NewString()
	s.start = s.now()

	if err := s.beginRoast(ctx); err != nil {
		return err
	}

	// Priming read; the first control tick needs a measurement.
	s.sample(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return every(gctx, s.samplingPeriod, s.sample) })
	g.Go(func() error { return every(gctx, s.controlPeriod, s.controlTick) })
	g.Go(func() error { return every(gctx, s.loggingPeriod, s.logTick) })
	err := g.Wait()

	s.log.Infow("roast_tasks_stopped", "roast_id", s.roastID, "elapsed", s.now().Sub(s.start).Round(time.Millisecond))
	return err
}

// every runs fn immediately and then on each tick until ctx is done.
func every(ctx context.Context, period time.Duration, fn func(context.Context)) error {
	fn(ctx)
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			fn(ctx)
		}
	}
}

func (s *RoasterService) beginRoast(ctx context.Context) error {
	if s.roasts != nil {
		r := models.Roast{
			ID:        s.roastID,
			StartedAt: s.start.UTC(),
			Deadband:  s.controller.Deadband(),
		}
		for _, a := range s.profile.Anchors() {
			r.Anchors = append(r.Anchors, models.AnchorPoint{TimeS: a.TimeS, TempC: a.TempC})
		}
		if err := s.roasts.Create(ctx, r); err != nil {
			return fmt.Errorf("create roast: %w", err)
		}
	}
	s.recordEvent(ctx, models.EventStart, "Roast started", map[string]any{
		"deadband":   s.controller.Deadband(),
		"duration_s": s.profile.Duration(),
	})
	s.log.Infow("roast_started",
		"roast_id", s.roastID,
		"deadband", s.controller.Deadband(),
		"anchors", len(s.profile.Anchors()),
		"sampling", s.samplingPeriod,
		"control", s.controlPeriod,
		"logging", s.loggingPeriod,
	)
	return nil
}

// sample reads the sensor. Failed readings are skipped and the last value kept.
func (s *RoasterService) sample(_ context.Context) {
	c, err := s.sensor.ReadTemperature()
	if err == nil {
		err = hardware.ValidateTemperature(c)
	}
	if err != nil {
		s.log.Debugw("sample_skipped", "err", err)
		return
	}
	s.state.SetMeasured(c)
}

func (s *RoasterService) controlTick(ctx context.Context) {
	elapsed := s.now().Sub(s.start).Seconds()
	setpoint := s.profile.Interpolate(elapsed)
	measured := s.state.Measured()
	prev := s.state.HeaterOn()
	on := s.controller.Decide(measured, setpoint, prev)

	s.state.SetControl(elapsed, setpoint, on)
	if err := s.actuator.SetHeater(on); err != nil {
		s.log.Warnw("heater_command_failed", "on", on, "err", err)
	}

	if on != prev {
		typ, desc := models.EventHeaterOff, "Heater switched off"
		if on {
			typ, desc = models.EventHeaterOn, "Heater switched on"
		}
		s.recordEvent(ctx, typ, desc, map[string]any{
			"elapsed_s":  elapsed,
			"measured_c": measured,
			"setpoint_c": setpoint,
		})
	}

	if s.phased != nil {
		if ph := s.phaseAt(elapsed); ph != s.phase {
			desc := "Entered " + ph
			if ph == "" {
				desc = "Final phase ended"
			}
			s.recordEvent(ctx, models.EventPhaseChange, desc, map[string]any{
				"from":      s.phase,
				"to":        ph,
				"elapsed_s": elapsed,
			})
			s.log.Infow("phase_changed", "from", s.phase, "to", ph, "elapsed_s", elapsed)
			s.phase = ph
		}
	}
}

func (s *RoasterService) logTick(ctx context.Context) {
	snap := s.state.Snapshot()
	rec := models.LogRecord{
		RoastID:       s.roastID,
		Timestamp:     s.now().UTC(),
		ElapsedS:      snap.ElapsedS,
		MeasuredTempC: snap.MeasuredTempC,
		SetpointTempC: snap.SetpointTempC,
		HeaterOn:      snap.HeaterOn,
		Phase:         s.phaseAt(snap.ElapsedS),
	}
	if err := s.sink.Write(ctx, rec); err != nil {
		s.log.Warnw("log_write_failed", "err", err)
	}
}

func (s *RoasterService) phaseAt(elapsed float64) string {
	if s.phased == nil {
		return ""
	}
	ph, ok := s.phased.PhaseAt(elapsed)
	if !ok {
		return ""
	}
	return string(ph.Name)
}

func (s *RoasterService) recordEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	if s.events == nil {
		return
	}
	err := s.events.Append(ctx, models.RoastEvent{
		RoastID:     s.roastID,
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}

// Shutdown turns the heater off, closes the roast record and releases the
// hardware and sinks. Call it after Run has returned; later calls return the
// first call's result.
func (s *RoasterService) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		var err error
		s.state.SetHeater(false)
		err = multierr.Append(err, wrap("heater off", s.actuator.SetHeater(false)))

		if s.started.Load() && s.roastID != "" {
			s.recordEvent(ctx, models.EventStop, "Roast stopped", map[string]any{
				"elapsed_s": s.now().Sub(s.start).Seconds(),
			})
			if s.roasts != nil {
				err = multierr.Append(err, wrap("finish roast", s.roasts.Finish(ctx, s.roastID, s.now().UTC())))
			}
		}

		err = multierr.Append(err, wrap("close actuator", s.actuator.Close()))
		err = multierr.Append(err, wrap("close sensor", s.sensor.Close()))
		err = multierr.Append(err, wrap("close sink", s.sink.Close()))
		s.shutdownErr = err

		if err != nil {
			s.log.Errorw("shutdown_incomplete", "roast_id", s.roastID, "err", err)
			return
		}
		s.log.Infow("roaster_shut_down", "roast_id", s.roastID)
	})
	return s.shutdownErr
}

func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
