package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"coffee_roaster/internal/logger"
	"coffee_roaster/internal/repository"
	"coffee_roaster/internal/repository/db"
	"coffee_roaster/internal/serial"
	"coffee_roaster/internal/service"
	"coffee_roaster/internal/sink"

	"github.com/spf13/pflag"
)

func main() {
	port := pflag.String("port", "/dev/tty.usbmodem2101", "serial device of the roaster board")
	baud := pflag.Int("baud", 115200, "baud rate")
	debug := pflag.Bool("debug", false, "trace every serial line and parsed record")
	outDir := pflag.String("out", ".", "directory for the data_log_*.csv file")
	dbPath := pflag.String("db", "", "also store samples in this SQLite roast store")
	pflag.Parse()

	level := logger.InfoLevel
	if *debug {
		level = logger.DebugLevel
	}
	log := logger.Get(level)
	defer func() { _ = log.Sync() }()

	p, err := serial.Open(serial.Config{Device: *port, BaudRate: *baud})
	if err != nil {
		log.Fatalw("failed to open serial port", "port", *port, "err", err)
	}

	csvSink, err := sink.CreateCSVFile(*outDir, time.Now())
	if err != nil {
		_ = p.Close()
		log.Fatalw("failed to create log file", "err", err)
	}
	out := sink.Multi{csvSink}

	var roasts repository.RoastRepo
	if *dbPath != "" {
		conn, err := db.InitDB(*dbPath)
		if err != nil {
			_ = p.Close()
			_ = csvSink.Close()
			log.Fatalw("failed to init sqlite", "err", err)
		}
		defer func() {
			if cerr := conn.Close(); cerr != nil {
				log.Errorw("failed to close sqlite", "err", cerr)
			}
		}()
		repos := repository.NewRepository(conn)
		roasts = repos.RoastRepo
		out = append(out, sink.NewStore(repos.SampleRepo))
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Errorw("failed to close log sinks", "err", err)
		}
	}()
	log.Infow("monitoring", "port", p.Device(), "baud", *baud, "file", csvSink.Path())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Closing the port unblocks the pending read once a signal arrives.
	go func() {
		<-ctx.Done()
		_ = p.Close()
	}()

	mon := service.NewMonitorService(out, roasts, log)
	stats, err := mon.Run(ctx, p)
	_ = p.Close()
	if err != nil {
		log.Errorw("monitor stopped", "err", err)
		return
	}
	log.Infow("user interrupted, exiting", "lines", stats.Lines, "records", stats.Records, "skipped", stats.Skipped)
}
