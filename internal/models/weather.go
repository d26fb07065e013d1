package models

import "time"

// WeatherSample is one hourly observation handed to the generation engine.
// Nil fields were absent (or null) at the source.
type WeatherSample struct {
	Timestamp   time.Time `json:"timestamp"`
	Irradiance  *float64  `json:"surface_radiation_wm2"` // W/m²
	Temperature *float64  `json:"temp_c"`                // Celsius
	WindSpeed   *float64  `json:"wind_speed"`            // m/s at 10 m
}

// Float returns a pointer to v, for building samples by hand.
func Float(v float64) *float64 {
	return &v
}
