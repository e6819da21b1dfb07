package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mw46d/WeatherFlow-PiConsole/internal/announce"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/app"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/config"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/env"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/sensors"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/timesync"
)

func main() {
	configPath := pflag.StringP("config", "c", "station.conf", "path to the station config file")
	pflag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Fatal skips defers, so all cleanup lives inside run.
	if err := run(*configPath, logger); err != nil {
		logger.Fatal("fatal", zap.Error(err))
	}
}

func run(configPath string, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := config.InitGlobal(configPath); err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	cfg := config.Get()
	logger.Info("starting environmental station",
		zap.String("config", configPath),
		zap.Int("http_port", cfg.HTTPPort),
	)

	state := &env.State{}

	// Startup failures are surfaced here instead of retrying forever.
	pmu, err := sensors.NewAXP192()
	if err != nil {
		return fmt.Errorf("PMU init failed: %w", err)
	}
	defer pmu.Close()

	var clock timesync.Clock = timesync.System{}
	if cfg.NTPServer != "" {
		ntpClock := timesync.NewNTP(
			cfg.NTPServer,
			time.Duration(cfg.NTPSyncIntervalMins)*time.Minute,
			logger,
		)
		go ntpClock.Run(ctx)
		clock = ntpClock
	}

	hub := app.NewHub(logger)
	sinks := []app.ReadingSink{hub}

	if cfg.MQTTBroker != "" {
		pub, err := app.NewMQTTPublisher(logger)
		if err != nil {
			return fmt.Errorf("MQTT connect failed: %w", err)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	if cfg.MDNSName != "" {
		if err := announce.Register(ctx, cfg.MDNSName, cfg.HTTPPort, logger); err != nil {
			logger.Warn("mDNS registration failed", zap.Error(err))
		}
	}

	handler := app.NewHandler(state, pmu, clock, hub, cfg.StationElevation, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.RunSampling(ctx, state, sinks, logger) })
	g.Go(func() error { return app.RunWeb(ctx, handler, logger) })
	g.Go(func() error { return app.RunDisplay(ctx, state, logger) })

	return g.Wait()
}
