package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/app"
	"github.com/m04kA/SMC-ChargingService/internal/config"
	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/usecase/reset_slots"
	"github.com/m04kA/SMC-ChargingService/pkg/logger"
	"github.com/m04kA/SMC-ChargingService/pkg/metrics"
)

// Разовый ручной сброс слотов всех станций.
// Использование: reset [-config config.toml] [-day YYYY-MM-DD]
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	dayFlag := flag.String("day", "", "day to reset slots for (YYYY-MM-DD), defaults to today")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	engine, err := app.NewEngine(cfg)
	if err != nil {
		log.Fatal("Failed to initialize reservation engine: %v", err)
	}

	req := &reset_slots.Request{}
	if *dayFlag != "" {
		day, err := time.ParseInLocation(domain.DateFormat, *dayFlag, engine.Location())
		if err != nil {
			log.Fatal("Invalid -day %q: %v", *dayFlag, err)
		}
		req.Day = &day
	}

	repo, closeStorage, err := app.OpenStorage(cfg, nil, nil, log)
	if err != nil {
		log.Fatal("Failed to open station storage: %v", err)
	}
	defer closeStorage()

	publisher, err := app.NewPublisher(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize event publisher: %v", err)
	}
	defer publisher.Close()

	runner := app.NewRunner(cfg, repo, metrics.Nop{}, log)
	resetUseCase, closeReset, err := app.NewResetUseCase(cfg, repo, runner, engine, publisher, metrics.Nop{}, log)
	if err != nil {
		log.Fatal("Failed to initialize slot reset: %v", err)
	}
	defer closeReset()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Reset.TimeoutSec)*time.Second)
	defer cancel()

	report, err := resetUseCase.Execute(ctx, req)
	if err != nil {
		log.Error("Slot reset failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Reset %s: total=%d reset=%d failed=%d skipped=%d dropped_bookings=%d (%s)\n",
		report.Day.Format(domain.DateFormat), report.Total, report.Reset, report.Failed,
		report.Skipped, report.DroppedBookings, report.Duration.Round(time.Millisecond))

	if report.Failed > 0 {
		os.Exit(2)
	}
}
