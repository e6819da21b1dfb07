package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/mw46d/WeatherFlow-PiConsole/internal/config"
	"github.com/mw46d/WeatherFlow-PiConsole/internal/power"
)

const (
	// ADC data registers, 12-bit values split over two registers
	regBatVoltage = 0x78
	regAPSVoltage = 0x7E
	regDieTemp    = 0x5E

	// Warning level register, bit 0 set when the battery is low
	regWarning = 0x47
)

const (
	// ADC scale factors from the AXP192 datasheet
	batVoltLSB = 0.0011 // 1.1 mV/LSB
	apsVoltLSB = 0.0014 // 1.4 mV/LSB

	dieTempLSB    = 0.1 // 0.1 °C/LSB
	dieTempOffset = -144.7
)

// AXP192 reads power telemetry from the board's power-management unit.
type AXP192 struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// NewAXP192 opens the PMU on the configured I2C bus.
func NewAXP192() (*AXP192, error) {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("AXP192 I2C open: %w", err)
	}

	a := &AXP192{
		bus: bus,
		dev: i2c.Dev{Bus: bus, Addr: cfg.AXP192I2CAddr},
	}

	// Probe the warning register so a missing PMU fails at startup, not on
	// the first request.
	if _, err := a.readByte(regWarning); err != nil {
		bus.Close()
		return nil, fmt.Errorf("AXP192 probe: %w", err)
	}

	return a, nil
}

func (a *AXP192) readByte(reg byte) (byte, error) {
	buf := make([]byte, 1)
	if err := a.dev.Tx([]byte{reg}, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// read12 reads one of the 12-bit ADC values: high byte first, low nibble in
// the second register.
func (a *AXP192) read12(reg byte) (uint16, error) {
	buf := make([]byte, 2)
	if err := a.dev.Tx([]byte{reg}, buf); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<4 | uint16(buf[1]&0x0F), nil
}

// BatteryVolts returns the battery voltage in volts.
func (a *AXP192) BatteryVolts() (float64, error) {
	raw, err := a.read12(regBatVoltage)
	if err != nil {
		return 0, err
	}
	return float64(raw) * batVoltLSB, nil
}

// SupplyVolts returns the APS (external supply) voltage in volts.
func (a *AXP192) SupplyVolts() (float64, error) {
	raw, err := a.read12(regAPSVoltage)
	if err != nil {
		return 0, err
	}
	return float64(raw) * apsVoltLSB, nil
}

// DieTempC returns the PMU die temperature in °C.
func (a *AXP192) DieTempC() (float64, error) {
	raw, err := a.read12(regDieTemp)
	if err != nil {
		return 0, err
	}
	return float64(raw)*dieTempLSB + dieTempOffset, nil
}

// WarnLevel returns 1 when the low-battery warning is raised, 0 otherwise.
func (a *AXP192) WarnLevel() (int, error) {
	v, err := a.readByte(regWarning)
	if err != nil {
		return 0, err
	}
	return int(v & 0x01), nil
}

// Read collects the full telemetry set.
func (a *AXP192) Read() (power.Telemetry, error) {
	vbat, err := a.BatteryVolts()
	if err != nil {
		return power.Telemetry{}, fmt.Errorf("AXP192 battery voltage: %w", err)
	}
	aps, err := a.SupplyVolts()
	if err != nil {
		return power.Telemetry{}, fmt.Errorf("AXP192 supply voltage: %w", err)
	}
	level, err := a.WarnLevel()
	if err != nil {
		return power.Telemetry{}, fmt.Errorf("AXP192 warning level: %w", err)
	}
	temp, err := a.DieTempC()
	if err != nil {
		return power.Telemetry{}, fmt.Errorf("AXP192 die temperature: %w", err)
	}

	return power.Telemetry{
		BatteryVolts: vbat,
		SupplyVolts:  aps,
		WarnLevel:    level,
		ChipTempC:    temp,
	}, nil
}

// Close releases the PMU I2C bus.
func (a *AXP192) Close() error {
	return a.bus.Close()
}
