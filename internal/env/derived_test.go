package env

import (
	"math"
	"testing"
)

func TestDewPointAtSaturation(t *testing.T) {
	// At 100% humidity the dew point equals the temperature.
	if got := DewPoint(20.0, 100.0); !almostEqual(got, 20.0, 1e-9) {
		t.Errorf("DewPoint(20, 100) = %v, want 20.0", got)
	}
}

func TestDewPointTypicalIndoor(t *testing.T) {
	// 20 °C at 50 %RH gives a dew point of about 9.26 °C.
	if got := DewPoint(20.0, 50.0); !almostEqual(got, 9.26, 0.01) {
		t.Errorf("DewPoint(20, 50) = %v, want ≈9.26", got)
	}
}

func TestDewPointZeroHumidity(t *testing.T) {
	if got := DewPoint(20.0, 0.0); !math.IsNaN(got) {
		t.Errorf("DewPoint(20, 0) = %v, want NaN", got)
	}
}

func TestSeaLevelPressureAtSeaLevel(t *testing.T) {
	// Zero elevation leaves the pressure unchanged (converted to hPa).
	if got := SeaLevelPressure(101325.0, 0.0); !almostEqual(got, 1013.25, 1e-9) {
		t.Errorf("SeaLevelPressure(101325, 0) = %v, want 1013.25", got)
	}
}

func TestSeaLevelPressureAtElevation(t *testing.T) {
	// 1000 hPa at 100 m reduces to about 1011.9 hPa (≈12 hPa per 100 m).
	got := SeaLevelPressure(100000.0, 100.0)
	if !almostEqual(got, 1011.9, 0.2) {
		t.Errorf("SeaLevelPressure(100000, 100) = %v, want ≈1011.9", got)
	}
	if got <= 1000.0 {
		t.Errorf("SeaLevelPressure(100000, 100) = %v, want above station pressure", got)
	}
}

func TestSeaLevelPressureZeroPressure(t *testing.T) {
	if got := SeaLevelPressure(0.0, 100.0); !math.IsNaN(got) {
		t.Errorf("SeaLevelPressure(0, 100) = %v, want NaN", got)
	}
}
