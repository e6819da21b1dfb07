package env

// Sample represents a single raw environmental measurement (BME280).
type Sample struct {
	Temperature float64 `json:"temp_c"`      // °C
	Humidity    float64 `json:"humidity"`    // %RH
	Pressure    float64 `json:"pressure_pa"` // Pa
}
