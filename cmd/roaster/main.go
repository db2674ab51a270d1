package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee_roaster/internal/config"
	"coffee_roaster/internal/control"
	"coffee_roaster/internal/hardware"
	"coffee_roaster/internal/logger"
	"coffee_roaster/internal/profile"
	"coffee_roaster/internal/repository"
	"coffee_roaster/internal/repository/db"
	"coffee_roaster/internal/serial"
	"coffee_roaster/internal/service"
	"coffee_roaster/internal/sink"
	"coffee_roaster/internal/state"

	"github.com/spf13/pflag"
)

const shutdownTimeout = 5 * time.Second

func main() {
	fs := pflag.NewFlagSet("roaster", pflag.ExitOnError)
	config.RegisterFlags(fs)
	printEvents := fs.String("print-events", "", "print the events of a stored roast and exit")
	eventType := fs.String("event-type", "", "with --print-events, only list this event type")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading config:", err)
		os.Exit(1)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	if *printEvents != "" {
		if err := listEvents(cfg, *printEvents, *eventType); err != nil {
			log.Fatalw("failed to list events", "roast_id", *printEvents, "err", err)
		}
		return
	}

	if err := run(cfg, log); err != nil {
		var ce *profile.ConstructionError
		if errors.As(err, &ce) {
			log.Fatalw("invalid roast profile", "param", ce.Param, "err", ce.Err)
		}
		log.Fatalw("roaster failed", "err", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	prof, err := profile.New(cfg.Profile.Anchors)
	if err != nil {
		return err
	}
	ctrl, err := control.NewBangBang(cfg.Profile.Deadband)
	if err != nil {
		return err
	}
	var phased *profile.PhasedProfile
	if p := cfg.Profile.Phased; p.Enabled {
		if phased, err = profile.NewPhased(p.TotalDuration, p.Drying, p.Browning, p.Development); err != nil {
			return err
		}
		logPhases(log, phased)
	}

	// open DB
	var repos *repository.Repository
	if cfg.Log.DBPath != "" {
		conn, err := db.InitDB(cfg.Log.DBPath)
		if err != nil {
			return fmt.Errorf("init sqlite: %w", err)
		}
		defer func() {
			if cerr := conn.Close(); cerr != nil {
				log.Errorw("failed to close sqlite", "err", cerr)
			}
		}()
		repos = repository.NewRepository(conn)
	}

	sensor, actuator, err := openHardware(cfg, log)
	if err != nil {
		return err
	}

	out, err := openSinks(cfg, repos, log)
	if err != nil {
		_ = actuator.Close()
		_ = sensor.Close()
		return err
	}

	opts := service.RoasterOptions{
		Profile:        prof,
		Phased:         phased,
		Controller:     ctrl,
		State:          state.New(),
		Sensor:         sensor,
		Actuator:       actuator,
		Sink:           out,
		Log:            log,
		SamplingPeriod: cfg.Tasks.SamplingPeriod,
		ControlPeriod:  cfg.Tasks.ControlPeriod,
		LoggingPeriod:  cfg.Tasks.LoggingPeriod,
	}
	if repos != nil {
		opts.Roasts = repos.RoastRepo
		opts.Events = repos.EventRepo
	}
	roaster, err := service.NewRoasterService(opts)
	if err != nil {
		_ = out.Close()
		_ = actuator.Close()
		_ = sensor.Close()
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := roaster.Shutdown(ctx); err != nil {
			log.Errorw("shutdown incomplete", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := roaster.Run(ctx); err != nil {
		return err
	}
	log.Infow("shutting down roaster...", "roast_id", roaster.RoastID())
	return nil
}

func logPhases(log *logger.Logger, pp *profile.PhasedProfile) {
	log.Infow("phased profile", "total_duration_s", pp.TotalDurationS)
	for _, ph := range pp.Phases {
		log.Infow("phase",
			"name", ph.Name,
			"percentage", ph.Percentage,
			"duration_s", ph.DurationS,
			"slope_c_per_s", ph.Slope,
		)
	}
}

// openHardware returns the configured sensor and actuator. The simulator
// serves as both.
func openHardware(cfg *config.Config, log *logger.Logger) (hardware.Sensor, hardware.Actuator, error) {
	if cfg.Sensor.Driver == config.SensorSimulator {
		sim, err := hardware.NewSimulator(hardware.DefaultSimulatorParams())
		if err != nil {
			return nil, nil, err
		}
		if cfg.Actuator.Driver == config.ActuatorSimulator {
			return sim, sim, nil
		}
		act, err := openActuator(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return sim, act, nil
	}

	sensor, err := openSensor(cfg)
	if err != nil {
		return nil, nil, err
	}
	act, err := openActuator(cfg, log)
	if err != nil {
		_ = sensor.Close()
		return nil, nil, err
	}
	return sensor, act, nil
}

func openSensor(cfg *config.Config) (hardware.Sensor, error) {
	switch cfg.Sensor.Driver {
	case config.SensorMCP9600:
		m, err := hardware.OpenMCP9600(cfg.Sensor.I2CBus, uint16(cfg.Sensor.Address))
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.SensorSerial:
		port, err := serial.Open(serial.Config{Device: cfg.Sensor.SerialDevice, BaudRate: cfg.Sensor.Baud})
		if err != nil {
			return nil, err
		}
		return hardware.NewLineSensor(port), nil
	default:
		return nil, fmt.Errorf("unknown sensor driver %q", cfg.Sensor.Driver)
	}
}

func openActuator(cfg *config.Config, log *logger.Logger) (hardware.Actuator, error) {
	switch cfg.Actuator.Driver {
	case config.ActuatorGPIO:
		g, err := hardware.NewGPIOHeater(cfg.Actuator.Chip, cfg.Actuator.Line)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ActuatorNone:
		return hardware.NewLogActuator(log), nil
	default:
		return nil, fmt.Errorf("actuator driver %q needs the simulator sensor", cfg.Actuator.Driver)
	}
}

func openSinks(cfg *config.Config, repos *repository.Repository, log *logger.Logger) (sink.Sink, error) {
	var out sink.Multi
	if cfg.Log.Console {
		out = append(out, sink.NewConsole(os.Stdout))
	}
	if cfg.Log.CSVDir != "" {
		c, err := sink.CreateCSVFile(cfg.Log.CSVDir, time.Now())
		if err != nil {
			return nil, err
		}
		log.Infow("logging samples", "file", c.Path())
		out = append(out, c)
	}
	if repos != nil {
		out = append(out, sink.NewStore(repos.SampleRepo))
	}
	return out, nil
}

// listEvents prints one stored roast's event log.
func listEvents(cfg *config.Config, roastID, typ string) error {
	if cfg.Log.DBPath == "" {
		return errors.New("no roast store configured (log.db_path)")
	}
	conn, err := db.InitDB(cfg.Log.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	svc := service.NewService(repository.NewRepository(conn))
	events, err := svc.List(context.Background(), service.LogFilter{RoastID: roastID, Type: typ})
	if err != nil {
		return err
	}
	for _, e := range events {
		meta := ""
		if e.Metadata != nil {
			b, err := json.Marshal(e.Metadata)
			if err == nil {
				meta = string(b)
			}
		}
		fmt.Printf("%s\t%-12s\t%s\t%s\n", e.OccurredAt.Format(time.RFC3339), e.Type, e.Description, meta)
	}
	return nil
}
