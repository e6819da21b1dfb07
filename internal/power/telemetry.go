package power

// Telemetry carries the PMU readings served alongside the environmental
// values.
type Telemetry struct {
	BatteryVolts float64 `json:"vbat"`     // battery voltage, V
	SupplyVolts  float64 `json:"aps"`      // APS (external supply) voltage, V
	WarnLevel    int     `json:"level"`    // low-battery warning, 0 or 1
	ChipTempC    float64 `json:"axp_temp"` // PMU die temperature, °C
}

// Source is implemented by anything that can report power telemetry.
type Source interface {
	Read() (Telemetry, error)
}
