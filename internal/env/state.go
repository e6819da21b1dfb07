package env

import "sync"

// Smoothing weights: the newest sample carries 1/5 of the blend, the running
// average the other 4/5. Older history decays geometrically, so no buffer is
// needed.
const (
	smoothOldWeight = 4.0
	smoothDivisor   = 5.0
)

// selfHeatingDivisor is an empirically fitted calibration constant for this
// board. Opaque tunable, do not re-derive.
const selfHeatingDivisor = 21.85

// Reading is a smoothed snapshot of the station state.
type Reading struct {
	Temperature float64 `json:"temp_c"`      // °C
	Humidity    float64 `json:"humidity"`    // %RH
	Pressure    float64 `json:"pressure_pa"` // Pa
}

// State holds the exponentially smoothed readings. Single writer (the
// sampling loop), many concurrent readers (HTTP handlers, display,
// publisher).
type State struct {
	mu   sync.RWMutex
	temp float64
	hum  float64
	pres float64
}

// Fold blends one raw sample into the running averages. Raw values are not
// validated; sensor noise is absorbed by the filter.
func (s *State) Fold(raw Sample) Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.temp = (s.temp*smoothOldWeight + raw.Temperature) / smoothDivisor
	s.hum = (s.hum*smoothOldWeight + raw.Humidity) / smoothDivisor
	s.pres = (s.pres*smoothOldWeight + raw.Pressure) / smoothDivisor

	return Reading{Temperature: s.temp, Humidity: s.hum, Pressure: s.pres}
}

// Snapshot returns a copy of the current smoothed readings.
func (s *State) Snapshot() Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Reading{Temperature: s.temp, Humidity: s.hum, Pressure: s.pres}
}

// CorrectedTemperature compensates the smoothed ambient temperature for
// self-heating bias using the internal chip temperature: the correction is
// quadratic in the difference between the two.
func CorrectedTemperature(tin, chipTemp float64) float64 {
	diff := chipTemp - tin
	return tin - diff*diff/selfHeatingDivisor
}
