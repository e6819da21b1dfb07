package sensors

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"

	"github.com/mw46d/WeatherFlow-PiConsole/internal/config"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/env"
)

var (
	bmeDev     *bmxx80.Dev
	bmeBus     i2c.BusCloser
	bmeOnce    sync.Once
	bmeInitErr error
)

// initBME initializes the BME280 once
func initBME() {
	bmeOnce.Do(func() {
		cfg := config.Get()

		// Initialize periph host
		if _, err := host.Init(); err != nil {
			bmeInitErr = fmt.Errorf("periph host init: %w", err)
			return
		}

		bus, err := i2creg.Open(cfg.I2CBus)
		if err != nil {
			bmeInitErr = fmt.Errorf("BME280 I2C open: %w", err)
			return
		}
		bmeBus = bus

		bmeDev, err = bmxx80.NewI2C(bus, cfg.BME280I2CAddr, &bmxx80.DefaultOpts)
		if err != nil {
			bmeInitErr = fmt.Errorf("BME280 init: %w", err)
			return
		}
	})
}

// ReadEnv reads one raw sample (temp + humidity + pressure) from the BME280.
func ReadEnv() (env.Sample, error) {
	initBME()
	if bmeInitErr != nil {
		return env.Sample{}, bmeInitErr
	}

	var e physic.Env
	if err := bmeDev.Sense(&e); err != nil {
		return env.Sample{}, fmt.Errorf("BME280 sense: %w", err)
	}

	return env.Sample{
		Temperature: e.Temperature.Celsius(),
		Humidity:    float64(e.Humidity) / float64(physic.PercentRH),
		Pressure:    float64(e.Pressure) / float64(physic.Pascal),
	}, nil
}

// CloseEnv releases the BME280 I2C bus.
func CloseEnv() error {
	if bmeBus != nil {
		return bmeBus.Close()
	}
	return nil
}
