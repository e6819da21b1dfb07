package env

import "math"

// Magnus formula coefficients for dew point over water.
const (
	magnusA = 17.625
	magnusB = 243.04
)

// Standard-atmosphere constants for the sea-level pressure reduction.
const (
	slpP0    = 1013.25  // reference sea-level pressure, hPa
	slpRd    = 287.05   // gas constant for dry air, J/(kg·K)
	slpGamma = 0.0065   // standard lapse rate, K/m
	slpG     = 9.80665  // gravitational acceleration, m/s²
	slpT0    = 288.15   // standard sea-level temperature, K
)

// DewPoint calculates the dew point in °C from the temperature (°C) and
// relative humidity (%). Returns NaN at zero humidity, where the formula is
// undefined.
func DewPoint(temp, humidity float64) float64 {
	if humidity <= 0 {
		return math.NaN()
	}

	alpha := math.Log(humidity/100.0) + magnusA*temp/(magnusB+temp)
	return magnusB * alpha / (magnusA - alpha)
}

// SeaLevelPressure reduces the station pressure (Pa) to sea level (hPa)
// using the station elevation in meters. Returns NaN when the pressure is
// not positive.
func SeaLevelPressure(presPa, elevation float64) float64 {
	pres := presPa / 100.0
	if pres <= 0 {
		return math.NaN()
	}

	exp := slpG / (slpRd * slpGamma)
	base := 1 + math.Pow(slpP0/pres, (slpRd*slpGamma)/slpG)*(slpGamma*elevation)/slpT0
	return pres * math.Pow(base, exp)
}
