package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mw46d/WeatherFlow-PiConsole/internal/config"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/env"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/sensors"
)

// ReadingSink receives every newly folded reading. Implemented by the MQTT
// publisher and the websocket hub.
type ReadingSink interface {
	Publish(env.Reading)
}

// RunSampling reads the BME280 on a fixed interval and folds each raw sample
// into the smoothed state. A sample that fails to read is logged and
// skipped; a sample that reads successfully is folded unvalidated, the
// filter absorbs the noise.
func RunSampling(ctx context.Context, state *env.State, sinks []ReadingSink, log *zap.Logger) error {
	cfg := config.Get()

	// Fail startup if the sensor is absent instead of retrying forever.
	first, err := sensors.ReadEnv()
	if err != nil {
		return err
	}
	reading := state.Fold(first)
	log.Info("first sample folded",
		zap.Float64("temp_c", reading.Temperature),
		zap.Float64("humidity", reading.Humidity),
		zap.Float64("pressure_pa", reading.Pressure),
	)
	for _, sink := range sinks {
		sink.Publish(reading)
	}

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			raw, err := sensors.ReadEnv()
			if err != nil {
				log.Error("sensor read failed", zap.Error(err))
				continue
			}

			reading := state.Fold(raw)
			for _, sink := range sinks {
				sink.Publish(reading)
			}

		case <-ctx.Done():
			return sensors.CloseEnv()
		}
	}
}
