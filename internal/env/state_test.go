package env

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestFoldMatchesRecurrence(t *testing.T) {
	samples := []Sample{
		{Temperature: 21.5, Humidity: 44.0, Pressure: 101325},
		{Temperature: 22.0, Humidity: 45.5, Pressure: 101300},
		{Temperature: 19.8, Humidity: 47.2, Pressure: 101350},
		{Temperature: 250.0, Humidity: 0.0, Pressure: 0.0}, // garbage sample, still folded
		{Temperature: 21.9, Humidity: 44.9, Pressure: 101310},
	}

	s := &State{}
	var wantTemp, wantHum, wantPres float64

	for i, raw := range samples {
		s.Fold(raw)
		wantTemp = (wantTemp*4 + raw.Temperature) / 5
		wantHum = (wantHum*4 + raw.Humidity) / 5
		wantPres = (wantPres*4 + raw.Pressure) / 5

		got := s.Snapshot()
		if !almostEqual(got.Temperature, wantTemp, 1e-9) {
			t.Errorf("sample %d: temperature = %v, want %v", i, got.Temperature, wantTemp)
		}
		if !almostEqual(got.Humidity, wantHum, 1e-9) {
			t.Errorf("sample %d: humidity = %v, want %v", i, got.Humidity, wantHum)
		}
		if !almostEqual(got.Pressure, wantPres, 1e-9) {
			t.Errorf("sample %d: pressure = %v, want %v", i, got.Pressure, wantPres)
		}
	}
}

func TestFoldStartsFromZero(t *testing.T) {
	s := &State{}
	r := s.Fold(Sample{Temperature: 25.0, Humidity: 50.0, Pressure: 100000})

	if !almostEqual(r.Temperature, 5.0, 1e-9) {
		t.Errorf("first folded temperature = %v, want 5.0", r.Temperature)
	}
	if !almostEqual(r.Humidity, 10.0, 1e-9) {
		t.Errorf("first folded humidity = %v, want 10.0", r.Humidity)
	}
	if !almostEqual(r.Pressure, 20000.0, 1e-9) {
		t.Errorf("first folded pressure = %v, want 20000.0", r.Pressure)
	}
}

func TestCorrectedTemperatureNoBias(t *testing.T) {
	if got := CorrectedTemperature(20.0, 20.0); !almostEqual(got, 20.0, 1e-9) {
		t.Errorf("CorrectedTemperature(20, 20) = %v, want 20.0", got)
	}
}

func TestCorrectedTemperatureWarmChip(t *testing.T) {
	// diff = 4, diff² = 16, correction = 16/21.85 ≈ 0.7323
	got := CorrectedTemperature(18.0, 22.0)
	if !almostEqual(got, 17.268, 0.001) {
		t.Errorf("CorrectedTemperature(18, 22) = %v, want ≈17.268", got)
	}
}

func TestCorrectedTemperatureColdChip(t *testing.T) {
	// Correction is quadratic, so it subtracts for a colder chip too.
	got := CorrectedTemperature(22.0, 18.0)
	want := 22.0 - 16.0/21.85
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("CorrectedTemperature(22, 18) = %v, want %v", got, want)
	}
}
